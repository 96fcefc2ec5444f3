package room

import (
	"math"

	"battlemap-engine/internal/geom"
)

// cellState - состояние клетки вспомогательного растра
type cellState uint8

const (
	cellEmpty cellState = iota
	cellWall
	cellFilled
)

// raster - вспомогательная сетка поверх bounds с шагом resolution
type raster struct {
	origin     geom.Point
	resolution float64
	cols, rows int
	cells      []cellState
}

// rasterSize - размеры растра в клетках. Каждая сторона не больше
// MaxRasterCells+1, поэтому произведение не переполняет int.
func rasterSize(bounds geom.Rect, resolution float64) (int, int) {
	side := func(v float64) int {
		return int(math.Min(math.Ceil(v/resolution), MaxRasterCells+1))
	}
	return side(bounds.W), side(bounds.H)
}

func newRaster(bounds geom.Rect, resolution float64) *raster {
	cols, rows := rasterSize(bounds, resolution)
	return &raster{
		origin:     geom.Point{X: bounds.X, Y: bounds.Y},
		resolution: resolution,
		cols:       cols,
		rows:       rows,
		cells:      make([]cellState, cols*rows),
	}
}

func (r *raster) index(x, y int) int {
	return y*r.cols + x
}

func (r *raster) inBounds(x, y int) bool {
	return x >= 0 && x < r.cols && y >= 0 && y < r.rows
}

// at - состояние клетки; всё за пределами растра считается пустым фоном
func (r *raster) at(x, y int) cellState {
	if !r.inBounds(x, y) {
		return cellEmpty
	}
	return r.cells[r.index(x, y)]
}

// toCell переводит мировую точку в клетку растра (может быть вне растра)
func (r *raster) toCell(p geom.Point) (int, int) {
	return int(math.Floor((p.X - r.origin.X) / r.resolution)),
		int(math.Floor((p.Y - r.origin.Y) / r.resolution))
}

// center - мировой центр клетки
func (r *raster) center(x, y int) geom.Point {
	return geom.Point{
		X: r.origin.X + (float64(x)+0.5)*r.resolution,
		Y: r.origin.Y + (float64(y)+0.5)*r.resolution,
	}
}

// drawLine размечает клетки отрезка как стену (целочисленный Брезенхэм).
// Клетки вне растра пропускаются, но обход продолжается: стена может
// начинаться за пределами bounds и заходить внутрь.
func (r *raster) drawLine(x0, y0, x1, y1 int) int {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := y1 - y0
	if dy > 0 {
		dy = -dy
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}

	marked := 0
	err := dx + dy
	for {
		if r.inBounds(x0, y0) {
			r.cells[r.index(x0, y0)] = cellWall
			marked++
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return marked
}

// extent - мировой прямоугольник растра с запасом в одну клетку
func (r *raster) extent() geom.Rect {
	return geom.Rect{
		X: r.origin.X,
		Y: r.origin.Y,
		W: float64(r.cols) * r.resolution,
		H: float64(r.rows) * r.resolution,
	}.Expand(r.resolution)
}

// drawWall растеризует хорду стены, предварительно обрезав её по растру
func (r *raster) drawWall(w Wall) int {
	if !w.A.IsFinite() || !w.B.IsFinite() {
		return 0
	}
	chord, ok := geom.ClipSegment(w.Chord(), r.extent())
	if !ok {
		return 0
	}
	x0, y0 := r.toCell(chord.A)
	x1, y1 := r.toCell(chord.B)
	return r.drawLine(x0, y0, x1, y1)
}
