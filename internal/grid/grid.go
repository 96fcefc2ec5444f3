package grid

import (
	"math"

	"battlemap-engine/internal/geom"
)

// Cell - координата ячейки. Для изометрии это координаты ромбической решётки.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

func isOdd(n int) bool {
	return n&1 != 0
}

// ToCell возвращает ячейку, содержащую точку p
func (c Config) ToCell(p geom.Point) Cell {
	switch c.Kind {
	case KindSquare:
		return Cell{
			Col: int(math.Floor((p.X - c.OffsetX) / c.CellSize)),
			Row: int(math.Floor((p.Y - c.OffsetY) / c.CellSize)),
		}
	case KindHexPointy:
		col, row := nearestStaggered(p.X-c.OffsetX, p.Y-c.OffsetY, c.hexWidth(), c.hexPitch())
		return Cell{Col: col, Row: row}
	case KindHexFlat:
		// Транспонируем: колонки идут с шагом pitch, нечётные сдвинуты по Y
		row, col := nearestStaggered(p.Y-c.OffsetY, p.X-c.OffsetX, c.hexWidth(), c.hexPitch())
		return Cell{Col: col, Row: row}
	case KindIsometric:
		x := p.X - c.OffsetX
		y := p.Y - c.OffsetY
		isoX := x/c.tileW() + y/c.tileH()
		isoY := y/c.tileH() - x/c.tileW()
		return Cell{Col: int(math.Round(isoX)), Row: int(math.Round(isoY))}
	default:
		// Без сетки ячейка - единичный квадрат
		return Cell{Col: int(math.Floor(p.X)), Row: int(math.Floor(p.Y))}
	}
}

// ToWorld возвращает центр ячейки в мировых координатах
func (c Config) ToWorld(cell Cell) geom.Point {
	switch c.Kind {
	case KindSquare:
		return geom.Point{
			X: float64(cell.Col)*c.CellSize + c.CellSize/2 + c.OffsetX,
			Y: float64(cell.Row)*c.CellSize + c.CellSize/2 + c.OffsetY,
		}
	case KindHexPointy:
		x, y := staggeredCenter(cell.Col, cell.Row, c.hexWidth(), c.hexPitch())
		return geom.Point{X: x + c.OffsetX, Y: y + c.OffsetY}
	case KindHexFlat:
		y, x := staggeredCenter(cell.Row, cell.Col, c.hexWidth(), c.hexPitch())
		return geom.Point{X: x + c.OffsetX, Y: y + c.OffsetY}
	case KindIsometric:
		return geom.Point{
			X: float64(cell.Col-cell.Row)*c.tileW()/2 + c.OffsetX,
			Y: float64(cell.Col+cell.Row)*c.tileH()/2 + c.OffsetY,
		}
	default:
		return geom.Point{X: float64(cell.Col), Y: float64(cell.Row)}
	}
}

// Snap притягивает точку к центру ближайшей ячейки.
// Для KindNone точка возвращается без изменений.
func (c Config) Snap(p geom.Point) geom.Point {
	if c.Kind == KindNone {
		return p
	}
	return c.ToWorld(c.ToCell(p))
}

// staggeredCenter - центр ячейки в решётке со сдвигом нечётных рядов.
// across - шаг внутри ряда, pitch - шаг между рядами.
func staggeredCenter(col, row int, across, pitch float64) (float64, float64) {
	shift := 0.0
	if isOdd(row) {
		shift = across / 2
	}
	return float64(col)*across + shift, float64(row) * pitch
}

// nearestStaggered ищет ближайший центр гекса.
// Проверяются два ряда вокруг точки: в каждом колонка округляется
// после снятия сдвига нечётного ряда, побеждает ближайший центр.
// Ближайший центр решётки и есть гекс, содержащий точку.
func nearestStaggered(x, y, across, pitch float64) (int, int) {
	r0 := int(math.Floor(y / pitch))

	bestCol, bestRow := 0, 0
	bestDist := math.Inf(1)
	for row := r0; row <= r0+1; row++ {
		shift := 0.0
		if isOdd(row) {
			shift = across / 2
		}
		col := int(math.Round((x - shift) / across))
		cx, cy := staggeredCenter(col, row, across, pitch)
		d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
		if d < bestDist {
			bestDist = d
			bestCol, bestRow = col, row
		}
	}
	return bestCol, bestRow
}

// CellShape возвращает контур ячейки, в которой лежит точка.
// Для KindNone формы нет.
func (c Config) CellShape(p geom.Point) (geom.Polygon, bool) {
	switch c.Kind {
	case KindSquare:
		cell := c.ToCell(p)
		x0 := float64(cell.Col)*c.CellSize + c.OffsetX
		y0 := float64(cell.Row)*c.CellSize + c.OffsetY
		s := c.CellSize
		return geom.Polygon{{X: x0, Y: y0}, {X: x0 + s, Y: y0}, {X: x0 + s, Y: y0 + s}, {X: x0, Y: y0 + s}}, true
	case KindHexPointy:
		return hexagon(c.Snap(p), c.CellSize/2, 30), true
	case KindHexFlat:
		return hexagon(c.Snap(p), c.CellSize/2, 0), true
	case KindIsometric:
		center := c.Snap(p)
		hw := c.tileW() / 2
		hh := c.tileH() / 2
		return geom.Polygon{
			{X: center.X, Y: center.Y - hh},
			{X: center.X + hw, Y: center.Y},
			{X: center.X, Y: center.Y + hh},
			{X: center.X - hw, Y: center.Y},
		}, true
	default:
		return nil, false
	}
}

// hexagon строит шестиугольник с вершинами через 60°.
// rotation = 30 даёт pointy-top, 0 - flat-top.
func hexagon(center geom.Point, radius, rotation float64) geom.Polygon {
	poly := make(geom.Polygon, 6)
	for i := range poly {
		angle := (float64(i)*60 + rotation) * math.Pi / 180
		poly[i] = geom.Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return poly
}
