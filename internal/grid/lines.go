package grid

import (
	"iter"
	"math"

	"battlemap-engine/internal/geom"
)

// EnumerateLines лениво перечисляет отрезки сетки, покрывающие bounds.
// Последовательность конечна и детерминирована: повторный обход
// генерирует те же отрезки заново, ничего не кешируется.
func EnumerateLines(bounds geom.Rect, cfg Config) iter.Seq[geom.Segment] {
	bounds = bounds.Normalize()
	return func(yield func(geom.Segment) bool) {
		if cfg.Validate() != nil {
			return
		}
		switch cfg.Kind {
		case KindSquare:
			squareLines(bounds, cfg, yield)
		case KindHexPointy, KindHexFlat:
			hexLines(bounds, cfg, yield)
		case KindIsometric:
			isoLines(bounds, cfg, yield)
		}
	}
}

// indexRange - диапазон индексов линий с шагом step, покрывающий [lo, hi]
func indexRange(lo, hi, origin, step float64) (int, int) {
	return int(math.Floor((lo - origin) / step)), int(math.Ceil((hi - origin) / step))
}

func squareLines(b geom.Rect, cfg Config, yield func(geom.Segment) bool) {
	s := cfg.CellSize

	i0, i1 := indexRange(b.X, b.MaxX(), cfg.OffsetX, s)
	for i := i0; i <= i1; i++ {
		x := cfg.OffsetX + float64(i)*s
		if !yield(geom.Segment{A: geom.Point{X: x, Y: b.Y}, B: geom.Point{X: x, Y: b.MaxY()}}) {
			return
		}
	}

	j0, j1 := indexRange(b.Y, b.MaxY(), cfg.OffsetY, s)
	for j := j0; j <= j1; j++ {
		y := cfg.OffsetY + float64(j)*s
		if !yield(geom.Segment{A: geom.Point{X: b.X, Y: y}, B: geom.Point{X: b.MaxX(), Y: y}}) {
			return
		}
	}
}

// hexLines выдаёт по шесть рёбер на каждый гекс, центр которого попадает
// в расширенные на одну ячейку границы (со сдвигом нечётных рядов).
func hexLines(b geom.Rect, cfg Config, yield func(geom.Segment) bool) {
	across := cfg.hexWidth()
	pitch := cfg.hexPitch()

	// Для flat-top роли осей меняются местами
	colStep, rowStep := across, pitch
	colOrigin, rowOrigin := cfg.OffsetX, cfg.OffsetY
	colLo, colHi, rowLo, rowHi := b.X, b.MaxX(), b.Y, b.MaxY()
	if cfg.Kind == KindHexFlat {
		colStep, rowStep = pitch, across
	}

	c0, c1 := indexRange(colLo, colHi, colOrigin, colStep)
	r0, r1 := indexRange(rowLo, rowHi, rowOrigin, rowStep)

	for row := r0 - 1; row <= r1+1; row++ {
		for col := c0 - 1; col <= c1+1; col++ {
			shape, _ := cfg.CellShape(cfg.ToWorld(Cell{Col: col, Row: row}))
			for _, edge := range shape.Edges() {
				if !yield(edge) {
					return
				}
			}
		}
	}
}

// IsoLineCount - число линий в каждом из двух диагональных семейств
func IsoLineCount(bounds geom.Rect, cfg Config) int {
	bounds = bounds.Normalize()
	return 2 * int(math.Ceil((bounds.W+bounds.H)/cfg.tileW()))
}

// isoLines выдаёт два семейства диагоналей: ↘ (isoY = k+0.5) и ↙ (isoX = k+0.5).
// Каждая линия протянута на всю ширину bounds.
func isoLines(b geom.Rect, cfg Config, yield func(geom.Segment) bool) {
	tw, th := cfg.tileW(), cfg.tileH()
	n := IsoLineCount(b, cfg)

	x0 := b.X - cfg.OffsetX
	x1 := b.MaxX() - cfg.OffsetX
	y0 := b.Y - cfg.OffsetY

	at := func(x, y float64) geom.Point {
		return geom.Point{X: x + cfg.OffsetX, Y: y + cfg.OffsetY}
	}

	// ↘: y/th - x/tw = k, минимум k в правом верхнем углу
	kDown := math.Floor(y0/th-x1/tw-0.5) + 0.5
	for i := 0; i < n; i++ {
		k := kDown + float64(i)
		seg := geom.Segment{A: at(x0, th*(k+x0/tw)), B: at(x1, th*(k+x1/tw))}
		if !yield(seg) {
			return
		}
	}

	// ↙: x/tw + y/th = k, минимум k в левом верхнем углу
	kUp := math.Floor(y0/th+x0/tw-0.5) + 0.5
	for i := 0; i < n; i++ {
		k := kUp + float64(i)
		seg := geom.Segment{A: at(x0, th*(k-x0/tw)), B: at(x1, th*(k-x1/tw))}
		if !yield(seg) {
			return
		}
	}
}
