package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"battlemap-engine/internal/geom"
	"battlemap-engine/internal/grid"
	"battlemap-engine/pkg/api"
)

// gridFlags - настройки сетки из конфига, которые можно переопределить флагами
type gridFlags struct {
	cfg grid.Config
}

func addGridFlags(fs *flag.FlagSet, base grid.Config) *gridFlags {
	g := &gridFlags{cfg: base}
	fs.TextVar(&g.cfg.Kind, "kind", base.Kind, "Grid kind: none, square, hex-pointy, hex-flat, isometric")
	fs.Float64Var(&g.cfg.CellSize, "size", base.CellSize, "Cell size in world units")
	fs.Float64Var(&g.cfg.OffsetX, "ox", base.OffsetX, "Grid X offset")
	fs.Float64Var(&g.cfg.OffsetY, "oy", base.OffsetY, "Grid Y offset")
	return g
}

func addPointFlags(fs *flag.FlagSet) *geom.Point {
	p := &geom.Point{}
	fs.Float64Var(&p.X, "x", 0, "World X")
	fs.Float64Var(&p.Y, "y", 0, "World Y")
	return p
}

func addRectFlags(fs *flag.FlagSet) *geom.Rect {
	r := &geom.Rect{}
	fs.Float64Var(&r.X, "x", 0, "Rectangle left")
	fs.Float64Var(&r.Y, "y", 0, "Rectangle top")
	fs.Float64Var(&r.W, "w", 0, "Rectangle width")
	fs.Float64Var(&r.H, "h", 0, "Rectangle height")
	return r
}

func pointViews(points []geom.Point) []api.PointView {
	out := make([]api.PointView, len(points))
	for i, p := range points {
		out[i] = api.PointView{X: p.X, Y: p.Y}
	}
	return out
}

// parsePoints разбирает "x1,y1 x2,y2 ..." (разделители - пробелы или ';')
func parsePoints(s string) ([]geom.Point, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ';' })
	points := make([]geom.Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: expected x,y", f)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		points = append(points, geom.Point{X: x, Y: y})
	}
	return points, nil
}

func runSnap(e *env, args []string) error {
	fs := flag.NewFlagSet("snap", flag.ContinueOnError)
	g := addGridFlags(fs, e.cfg.Grid)
	p := addPointFlags(fs)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	s := g.cfg.Snap(*p)
	return e.printJSON(api.PointView{X: s.X, Y: s.Y})
}

type cellView struct {
	Kind      string          `json:"kind"`
	Col       int             `json:"col"`
	Row       int             `json:"row"`
	Center    api.PointView   `json:"center"`
	Shape     []api.PointView `json:"shape,omitempty"`
	Neighbors []grid.Cell     `json:"neighbors,omitempty"`
	Distance  *int            `json:"distance,omitempty"`
}

func runCell(e *env, args []string) error {
	fs := flag.NewFlagSet("cell", flag.ContinueOnError)
	g := addGridFlags(fs, e.cfg.Grid)
	p := addPointFlags(fs)
	to := fs.String("to", "", "Optional second point x,y: report distance in cells")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	cell := g.cfg.ToCell(*p)
	center := g.cfg.ToWorld(cell)
	view := cellView{
		Kind:      g.cfg.Kind.String(),
		Col:       cell.Col,
		Row:       cell.Row,
		Center:    api.PointView{X: center.X, Y: center.Y},
		Neighbors: g.cfg.Neighbors(cell),
	}
	if shape, ok := g.cfg.CellShape(*p); ok {
		view.Shape = pointViews(shape)
	}

	if *to != "" {
		pts, err := parsePoints(*to)
		if err != nil || len(pts) != 1 {
			return fmt.Errorf("-to: expected a single x,y point")
		}
		d := g.cfg.Distance(cell, g.cfg.ToCell(pts[0]))
		view.Distance = &d
	}

	return e.printJSON(view)
}

type segmentView struct {
	A api.PointView `json:"a"`
	B api.PointView `json:"b"`
}

func runLines(e *env, args []string) error {
	fs := flag.NewFlagSet("lines", flag.ContinueOnError)
	g := addGridFlags(fs, e.cfg.Grid)
	r := addRectFlags(fs)
	countOnly := fs.Bool("count", false, "Print only the number of segments")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}

	var segments []segmentView
	n := 0
	for s := range grid.EnumerateLines(*r, g.cfg) {
		n++
		if *countOnly {
			continue
		}
		segments = append(segments, segmentView{
			A: api.PointView{X: s.A.X, Y: s.A.Y},
			B: api.PointView{X: s.B.X, Y: s.B.Y},
		})
	}

	if *countOnly {
		return e.printJSON(map[string]int{"segments": n})
	}
	return e.printJSON(segments)
}
