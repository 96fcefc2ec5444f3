package room

import "context"

type offset struct{ x, y int }

type cellPos struct{ x, y int }

var fourNeighbors = [4]offset{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Окрестность Мура по часовой стрелке (ось Y направлена вниз), начиная с запада
var mooreRing = [8]offset{
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
	{0, 1},   // S
	{-1, 1},  // SW
}

func ringIndex(dx, dy int) int {
	for i, o := range mooreRing {
		if o.x == dx && o.y == dy {
			return i
		}
	}
	return -1
}

func (r *raster) filled(x, y int) bool {
	return r.at(x, y) == cellFilled
}

// traceContour обходит внешнюю границу залитой области методом Мура.
// Старт - первая залитая клетка при построчном сканировании, её западный
// сосед заведомо не залит и служит начальной точкой возврата (backtrack).
// Обход завершается, когда пара (текущая клетка, backtrack) повторяет
// начальную. Лимит 4*cols*rows итераций защищает от незамыкающихся форм.
func (r *raster) traceContour(ctx context.Context) ([]cellPos, error) {
	start, ok := r.firstFilled()
	if !ok {
		return nil, ErrNothingFilled
	}
	startBack := cellPos{start.x - 1, start.y}

	contour := []cellPos{start}
	cur, back := start, startBack

	limit := 4 * r.cols * r.rows
	for iter := 0; iter < limit; iter++ {
		if iter%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		k := ringIndex(back.x-cur.x, back.y-cur.y)
		if k < 0 {
			return nil, ErrContourNotClosed
		}

		found := false
		for i := 1; i <= 8; i++ {
			idx := (k + i) % 8
			n := cellPos{cur.x + mooreRing[idx].x, cur.y + mooreRing[idx].y}
			if !r.filled(n.x, n.y) {
				continue
			}
			prev := mooreRing[(idx+7)%8]
			back = cellPos{cur.x + prev.x, cur.y + prev.y}
			cur = n
			found = true
			break
		}

		// Одиночная клетка без соседей - контур из одной точки
		if !found {
			return contour, nil
		}
		if cur == start && back == startBack {
			return contour, nil
		}
		contour = append(contour, cur)
	}

	return nil, ErrContourNotClosed
}

func (r *raster) firstFilled() (cellPos, bool) {
	for y := range r.rows {
		for x := range r.cols {
			if r.cells[r.index(x, y)] == cellFilled {
				return cellPos{x, y}, true
			}
		}
	}
	return cellPos{}, false
}
