package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"battlemap-engine/internal/fog"
	"battlemap-engine/internal/geom"
	"battlemap-engine/internal/infrastructure/storage"
	"battlemap-engine/pkg/api"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run выполняет команду; справка и подсказки по использованию пишутся в w
func run(args []string, w io.Writer) error {
	if len(args) < 1 {
		printHelp(w)
		return nil
	}

	switch args[0] {
	case "dump":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: fogutil dump <file.fogl>")
			return nil
		}
		return dump(w, args[1])
	case "validate":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: fogutil validate <file.json>")
			return nil
		}
		return validate(w, args[1])
	case "convert":
		if len(args) < 3 {
			fmt.Fprintln(w, "Usage: fogutil convert <in.json> <out.fogl>")
			return nil
		}
		return convert(w, args[1], args[2])
	case "stat":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: fogutil stat <file.fogl>")
			return nil
		}
		return stat(w, args[1])
	default:
		printHelp(w)
		return nil
	}
}

func readLog(path string) (*storage.ShapeLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return storage.Read(bufio.NewReader(f))
}

// dump печатает бинарный журнал как JSON
func dump(w io.Writer, path string) error {
	log, err := readLog(path)
	if err != nil {
		return err
	}
	rec := api.ShapeLogRecord{Version: api.ShapeLogVersion, Shapes: make([]api.ShapeRecord, len(log.Shapes))}
	for i, s := range log.Shapes {
		rec.Shapes[i] = api.NewShapeRecord(s)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// validate проверяет JSON-журнал по схеме и собирает из него маску
func validate(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rec, err := api.DecodeShapeLog(data)
	if err != nil {
		return err
	}
	m, err := rec.Mask()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "OK: %d shapes\n", m.Len())
	return nil
}

// convert переводит JSON-журнал в .fogl
func convert(w io.Writer, in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	rec, err := api.DecodeShapeLog(data)
	if err != nil {
		return err
	}
	m, err := rec.Mask()
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	if err := storage.Write(bw, storage.NewShapeLog(m)); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Wrote %d shapes to %s\n", m.Len(), out)
	return nil
}

// stat - краткая сводка по журналу
func stat(w io.Writer, path string) error {
	log, err := readLog(path)
	if err != nil {
		return err
	}

	counts := map[string]int{}
	var bounds geom.Rect
	for i, s := range log.Shapes {
		counts[s.Geometry.Kind().String()+"/"+s.Op.String()]++
		b := fog.Bounds(s.Geometry).Normalize()
		if i == 0 {
			bounds = b
			continue
		}
		bounds = union(bounds, b)
	}

	fmt.Fprintf(w, "Saved:  %s\n", time.Unix(log.Timestamp, 0).UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "Shapes: %d\n", len(log.Shapes))
	for k, n := range counts {
		fmt.Fprintf(w, "  %-18s %d\n", k, n)
	}
	if len(log.Shapes) > 0 {
		fmt.Fprintf(w, "Bounds: x=%.1f y=%.1f w=%.1f h=%.1f\n", bounds.X, bounds.Y, bounds.W, bounds.H)
	}
	return nil
}

func union(a, b geom.Rect) geom.Rect {
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1, y1 := max(a.MaxX(), b.MaxX()), max(a.MaxY(), b.MaxY())
	return geom.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Fog Utility - работа с журналами тумана (.fogl)
Commands:
  dump <file.fogl>             - вывести бинарный журнал как JSON
  validate <file.json>         - проверить JSON-журнал по схеме
  convert <in.json> <out.fogl> - перевести JSON-журнал в бинарный формат
  stat <file.fogl>             - сводка: время сохранения, число фигур, габариты`)
}
