package grid

import "battlemap-engine/internal/geom"

// Смещения соседей для квадратной и изометрической сетки (включая диагонали)
var squareNeighbors = [8]Cell{
	{Col: 0, Row: -1}, {Col: 1, Row: -1}, {Col: 1, Row: 0}, {Col: 1, Row: 1},
	{Col: 0, Row: 1}, {Col: -1, Row: 1}, {Col: -1, Row: 0}, {Col: -1, Row: -1},
}

// Смещения для гексов со сдвигом нечётных рядов ("odd-r"), [чётность][направление]
var oddRowNeighbors = [2][6]Cell{
	{{Col: 1, Row: 0}, {Col: 0, Row: -1}, {Col: -1, Row: -1}, {Col: -1, Row: 0}, {Col: -1, Row: 1}, {Col: 0, Row: 1}},
	{{Col: 1, Row: 0}, {Col: 1, Row: -1}, {Col: 0, Row: -1}, {Col: -1, Row: 0}, {Col: 0, Row: 1}, {Col: 1, Row: 1}},
}

// То же для flat-top со сдвигом нечётных колонок ("odd-q")
var oddColNeighbors = [2][6]Cell{
	{{Col: 1, Row: 0}, {Col: 1, Row: -1}, {Col: 0, Row: -1}, {Col: -1, Row: -1}, {Col: -1, Row: 0}, {Col: 0, Row: 1}},
	{{Col: 1, Row: 1}, {Col: 1, Row: 0}, {Col: 0, Row: -1}, {Col: -1, Row: 0}, {Col: -1, Row: 1}, {Col: 0, Row: 1}},
}

func parity(n int) int {
	if isOdd(n) {
		return 1
	}
	return 0
}

func shift(c Cell, offsets []Cell) []Cell {
	out := make([]Cell, len(offsets))
	for i, o := range offsets {
		out[i] = Cell{Col: c.Col + o.Col, Row: c.Row + o.Row}
	}
	return out
}

// Neighbors возвращает соседние ячейки: 8 для квадратной и изометрической
// сетки, 6 для гексов. Без сетки соседей нет.
func (c Config) Neighbors(cell Cell) []Cell {
	switch c.Kind {
	case KindSquare, KindIsometric:
		return shift(cell, squareNeighbors[:])
	case KindHexPointy:
		return shift(cell, oddRowNeighbors[parity(cell.Row)][:])
	case KindHexFlat:
		return shift(cell, oddColNeighbors[parity(cell.Col)][:])
	default:
		return nil
	}
}

// Distance - расстояние между ячейками в шагах сетки
func (c Config) Distance(a, b Cell) int {
	switch c.Kind {
	case KindHexPointy:
		return cubeDistance(oddRowToCube(a), oddRowToCube(b))
	case KindHexFlat:
		return cubeDistance(oddColToCube(a), oddColToCube(b))
	default:
		return max(abs(a.Col-b.Col), abs(a.Row-b.Row))
	}
}

type cube struct{ q, r, s int }

func oddRowToCube(c Cell) cube {
	q := c.Col - (c.Row-(c.Row&1))/2
	r := c.Row
	return cube{q: q, r: r, s: -q - r}
}

func oddColToCube(c Cell) cube {
	q := c.Col
	r := c.Row - (c.Col-(c.Col&1))/2
	return cube{q: q, r: r, s: -q - r}
}

func cubeDistance(a, b cube) int {
	return max(abs(a.q-b.q), abs(a.r-b.r), abs(a.s-b.s))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// CellsIn возвращает ячейки, центры которых лежат внутри bounds,
// в порядке строк. Без сетки список пуст.
func (c Config) CellsIn(bounds geom.Rect) []Cell {
	if c.Kind == KindNone || c.Validate() != nil {
		return nil
	}
	bounds = bounds.Normalize()

	// Перебираем ячейки по углам bounds с запасом в одну ячейку
	corners := []geom.Point{
		{X: bounds.X, Y: bounds.Y}, {X: bounds.MaxX(), Y: bounds.Y},
		{X: bounds.X, Y: bounds.MaxY()}, {X: bounds.MaxX(), Y: bounds.MaxY()},
	}
	first := c.ToCell(corners[0])
	minCol, maxCol, minRow, maxRow := first.Col, first.Col, first.Row, first.Row
	for _, p := range corners[1:] {
		cell := c.ToCell(p)
		minCol, maxCol = min(minCol, cell.Col), max(maxCol, cell.Col)
		minRow, maxRow = min(minRow, cell.Row), max(maxRow, cell.Row)
	}

	var out []Cell
	for row := minRow - 1; row <= maxRow+1; row++ {
		for col := minCol - 1; col <= maxCol+1; col++ {
			cell := Cell{Col: col, Row: row}
			if bounds.Contains(c.ToWorld(cell)) {
				out = append(out, cell)
			}
		}
	}
	return out
}
