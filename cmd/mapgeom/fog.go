package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"battlemap-engine/internal/fog"
	"battlemap-engine/internal/infrastructure/storage"
	"battlemap-engine/pkg/api"
	"battlemap-engine/pkg/logger"

	"github.com/sirupsen/logrus"
)

// fogStore - маска тумана, загруженная из журнала .fogl
type fogStore struct {
	svc  *storage.ShapeLogService
	name string
	mask *fog.Mask
}

func openFog(e *env, name string) (*fogStore, error) {
	if name == "" {
		name = e.cfg.Storage.FogLog
	}
	st := &fogStore{
		svc:  storage.NewShapeLogService(e.cfg.Storage.Dir),
		name: name,
		mask: fog.NewMask(e.cfg.Fog),
	}

	log, err := st.svc.Load(name)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.WithField("path", st.svc.Path(name)).Info("Fog log not found, starting empty.")
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load fog log: %w", err)
	}
	if err := st.mask.Replace(log.Shapes); err != nil {
		return nil, fmt.Errorf("fog log %s: %w", st.svc.Path(name), err)
	}
	return st, nil
}

func (st *fogStore) save() error {
	return st.svc.Save(st.name, storage.NewShapeLog(st.mask))
}

func runFog(e *env, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: mapgeom fog <add|rm|list|hidden|cells> [flags]")
		return errUsage
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "add":
		return runFogAdd(e, rest)
	case "rm":
		return runFogRemove(e, rest)
	case "list":
		return runFogList(e, rest)
	case "hidden":
		return runFogHidden(e, rest)
	case "cells":
		return runFogCells(e, rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown fog command %q\n", sub)
		return errUsage
	}
}

func runFogAdd(e *env, args []string) error {
	fset := flag.NewFlagSet("fog add", flag.ContinueOnError)
	logName := fset.String("log", "", "Fog log file name inside storage dir")
	id := fset.String("id", "", "Shape id (generated when empty)")
	kind := fset.String("kind", "rect", "Shape kind: rect, ellipse, polygon, brush")
	op := fset.String("op", "add", "Operation: add (hide) or subtract (reveal)")
	r := addRectFlags(fset)
	pts := fset.String("points", "", "Polygon/brush points: \"x1,y1 x2,y2 ...\"")
	width := fset.Float64("width", 0, "Brush width")
	if err := parseFlags(fset, args); err != nil {
		return err
	}

	points, err := parsePoints(*pts)
	if err != nil {
		return err
	}
	rec := api.ShapeRecord{
		ID:        *id,
		Kind:      *kind,
		Operation: *op,
		Geometry: api.GeometryView{
			X: r.X, Y: r.Y, W: r.W, H: r.H,
			Points: pointViews(points),
			Width:  *width,
		},
	}
	shape, err := rec.Shape()
	if err != nil {
		return err
	}

	st, err := openFog(e, *logName)
	if err != nil {
		return err
	}
	stored, err := st.mask.Append(shape)
	if err != nil {
		return err
	}
	if err := st.save(); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"id":    stored.ID,
		"kind":  stored.Geometry.Kind().String(),
		"op":    stored.Op.String(),
		"total": st.mask.Len(),
	}).Info("Fog shape added.")
	return e.printJSON(api.NewShapeRecord(stored))
}

func runFogRemove(e *env, args []string) error {
	fset := flag.NewFlagSet("fog rm", flag.ContinueOnError)
	logName := fset.String("log", "", "Fog log file name inside storage dir")
	id := fset.String("id", "", "Shape id to delete")
	if err := parseFlags(fset, args); err != nil {
		return err
	}
	if *id == "" {
		fmt.Fprintln(os.Stderr, "fog rm: -id is required")
		return errUsage
	}

	st, err := openFog(e, *logName)
	if err != nil {
		return err
	}
	// Удаление отсутствующей фигуры - не ошибка
	if !st.mask.Delete(*id) {
		logger.Log.WithField("id", *id).Warn("Fog shape not found.")
		return e.printJSON(map[string]bool{"deleted": false})
	}
	if err := st.save(); err != nil {
		return err
	}
	return e.printJSON(map[string]bool{"deleted": true})
}

func runFogList(e *env, args []string) error {
	fset := flag.NewFlagSet("fog list", flag.ContinueOnError)
	logName := fset.String("log", "", "Fog log file name inside storage dir")
	if err := parseFlags(fset, args); err != nil {
		return err
	}

	st, err := openFog(e, *logName)
	if err != nil {
		return err
	}
	return e.printJSON(api.NewShapeLogRecord(st.mask))
}

func runFogHidden(e *env, args []string) error {
	fset := flag.NewFlagSet("fog hidden", flag.ContinueOnError)
	logName := fset.String("log", "", "Fog log file name inside storage dir")
	p := addPointFlags(fset)
	if err := parseFlags(fset, args); err != nil {
		return err
	}

	st, err := openFog(e, *logName)
	if err != nil {
		return err
	}
	return e.printJSON(map[string]bool{"hidden": st.mask.IsHidden(*p)})
}

func runFogCells(e *env, args []string) error {
	fset := flag.NewFlagSet("fog cells", flag.ContinueOnError)
	logName := fset.String("log", "", "Fog log file name inside storage dir")
	g := addGridFlags(fset, e.cfg.Grid)
	r := addRectFlags(fset)
	if err := parseFlags(fset, args); err != nil {
		return err
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	st, err := openFog(e, *logName)
	if err != nil {
		return err
	}

	// Клетка скрыта, если скрыт её центр
	type cellState struct {
		Col    int  `json:"col"`
		Row    int  `json:"row"`
		Hidden bool `json:"hidden"`
	}
	cells := g.cfg.CellsIn(*r)
	out := make([]cellState, 0, len(cells))
	for _, c := range cells {
		out = append(out, cellState{Col: c.Col, Row: c.Row, Hidden: st.mask.IsHidden(g.cfg.ToWorld(c))})
	}
	return e.printJSON(out)
}
