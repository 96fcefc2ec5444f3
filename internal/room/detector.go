package room

import (
	"context"
	"errors"
	"fmt"
	"math"

	"battlemap-engine/internal/geom"
	"battlemap-engine/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	DefaultResolution      = 20.0
	DefaultToleranceFactor = 1.5

	// Как часто длинные циклы проверяют отмену контекста
	cancelCheckEvery = 4096

	// MaxRasterCells - предел размера вспомогательного растра (cols*rows)
	MaxRasterCells = 1 << 24
)

// ErrNoRegion - общий признак "замкнутая комната не найдена".
// Все причины ниже оборачивают его, проверять удобно через errors.Is.
var ErrNoRegion = errors.New("no enclosed region")

var (
	ErrInvalidBounds     = fmt.Errorf("%w: bounds are not finite", ErrNoRegion)
	ErrRasterTooLarge    = fmt.Errorf("%w: raster exceeds cell limit", ErrNoRegion)
	ErrStartOutOfBounds  = fmt.Errorf("%w: start point is outside bounds", ErrNoRegion)
	ErrStartOnWall       = fmt.Errorf("%w: start point is on a wall", ErrNoRegion)
	ErrNothingFilled     = fmt.Errorf("%w: flood fill reached no cells", ErrNoRegion)
	ErrContourNotClosed  = fmt.Errorf("%w: contour did not close", ErrNoRegion)
	ErrDegenerateContour = fmt.Errorf("%w: contour has fewer than 3 vertices", ErrNoRegion)
)

// Options - параметры детектора
type Options struct {
	// Resolution - шаг вспомогательного растра в мировых единицах.
	// Меньше - точнее и медленнее. <= 0 означает DefaultResolution.
	Resolution float64 `yaml:"resolution" json:"resolution"`

	// ToleranceFactor - допуск упрощения контура в долях Resolution
	ToleranceFactor float64 `yaml:"tolerance_factor" json:"toleranceFactor"`

	// BlockingOnly - растеризовать только стены, блокирующие движение или обзор
	BlockingOnly bool `yaml:"blocking_only" json:"blockingOnly"`
}

func (o Options) withDefaults() Options {
	if !(o.Resolution > 0) || math.IsInf(o.Resolution, 1) {
		o.Resolution = DefaultResolution
	}
	if !(o.ToleranceFactor >= 0) {
		o.ToleranceFactor = DefaultToleranceFactor
	}
	return o
}

// DefaultOptions - параметры по умолчанию
func DefaultOptions() Options {
	return Options{Resolution: DefaultResolution, ToleranceFactor: DefaultToleranceFactor}
}

// Boundary - найденный контур комнаты в мировых координатах.
// Владение переходит вызывающему коду.
type Boundary struct {
	Points geom.Polygon

	// Служебная статистика для логов и отладки
	FilledCells int
	TracedCells int
}

// Flat - контур плоским списком [x0, y0, x1, y1, ...]
func (b Boundary) Flat() []float64 {
	return b.Points.Flat()
}

// Detect ищет замкнутую комнату вокруг start.
// Функция чистая: не меняет ни маску тумана, ни сетку.
func Detect(start geom.Point, walls []Wall, bounds geom.Rect, opts Options) (Boundary, error) {
	return DetectContext(context.Background(), start, walls, bounds, opts)
}

// DetectContext - Detect с возможностью отмены (для фоновых запросов)
func DetectContext(ctx context.Context, start geom.Point, walls []Wall, bounds geom.Rect, opts Options) (Boundary, error) {
	opts = opts.withDefaults()
	bounds = bounds.Normalize()

	log := logger.Log.WithFields(logrus.Fields{
		"component":  "room_detector",
		"start":      start,
		"resolution": opts.Resolution,
	})

	if !bounds.IsFinite() {
		log.WithField("bounds", bounds).Debug("Bounds are not finite.")
		return Boundary{}, ErrInvalidBounds
	}
	if !start.IsFinite() || !bounds.Contains(start) || bounds.W <= 0 || bounds.H <= 0 {
		log.Debug("Start point is outside bounds.")
		return Boundary{}, ErrStartOutOfBounds
	}

	// 1-2. Растр и стены
	cols, rows := rasterSize(bounds, opts.Resolution)
	if cols*rows > MaxRasterCells {
		log.WithFields(logrus.Fields{"cols": cols, "rows": rows}).Debug("Raster is too large.")
		return Boundary{}, ErrRasterTooLarge
	}
	r := newRaster(bounds, opts.Resolution)
	wallCells := 0
	for _, w := range walls {
		if opts.BlockingOnly && !w.Blocking() {
			continue
		}
		wallCells += r.drawWall(w)
	}

	log = log.WithFields(logrus.Fields{
		"cols":       r.cols,
		"rows":       r.rows,
		"walls":      len(walls),
		"wall_cells": wallCells,
	})

	// 3. Стартовая клетка. Точка на правой/нижней кромке bounds попадает
	// в клетку за растром - прижимаем её внутрь.
	sx, sy := r.toCell(start)
	sx = min(sx, r.cols-1)
	sy = min(sy, r.rows-1)
	if !r.inBounds(sx, sy) {
		return Boundary{}, ErrStartOutOfBounds
	}
	if r.at(sx, sy) == cellWall {
		log.Debug("Start point is on a wall.")
		return Boundary{}, ErrStartOnWall
	}

	// 4. Заливка
	filled, err := r.floodFill(ctx, sx, sy)
	if err != nil {
		return Boundary{}, err
	}
	if filled == 0 {
		return Boundary{}, ErrNothingFilled
	}

	// 5. Контур
	cells, err := r.traceContour(ctx)
	if err != nil {
		log.WithField("filled", filled).Debug("Contour tracing failed.")
		return Boundary{}, err
	}

	// 6. В мировые координаты и упрощение
	contour := make(geom.Polygon, len(cells))
	for i, c := range cells {
		contour[i] = r.center(c.x, c.y)
	}
	simplified := geom.SimplifyPolygon(contour, opts.ToleranceFactor*opts.Resolution)
	if len(simplified) < 3 || simplified.Area() == 0 {
		log.WithField("traced", len(cells)).Debug("Contour is degenerate.")
		return Boundary{}, ErrDegenerateContour
	}

	log.WithFields(logrus.Fields{
		"filled":   filled,
		"traced":   len(cells),
		"vertices": len(simplified),
	}).Debug("Room detected.")

	return Boundary{Points: simplified, FilledCells: filled, TracedCells: len(cells)}, nil
}

// floodFill - 4-связная заливка в ширину от (sx, sy).
// Останавливается на стенах и краях растра.
func (r *raster) floodFill(ctx context.Context, sx, sy int) (int, error) {
	total := r.cols * r.rows
	qx := make([]int, 0, min(total, 1024))
	qy := make([]int, 0, min(total, 1024))

	r.cells[r.index(sx, sy)] = cellFilled
	qx = append(qx, sx)
	qy = append(qy, sy)
	filled := 1

	for head := 0; head < len(qx); head++ {
		if head%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		cx, cy := qx[head], qy[head]

		for _, d := range fourNeighbors {
			nx, ny := cx+d.x, cy+d.y
			if !r.inBounds(nx, ny) {
				continue
			}
			idx := r.index(nx, ny)
			if r.cells[idx] != cellEmpty {
				continue
			}
			r.cells[idx] = cellFilled
			qx = append(qx, nx)
			qy = append(qy, ny)
			filled++
		}
	}
	return filled, nil
}
