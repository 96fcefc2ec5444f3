package geom

// Simplify упрощает открытую ломаную алгоритмом Рамера-Дугласа-Пекера.
// Первая и последняя точки сохраняются всегда. Точка отбрасывается,
// если её отклонение от хорды не превышает tolerance (при tolerance = 0
// удаляются только строго коллинеарные точки).
func Simplify(points []Point, tolerance float64) []Point {
	if len(points) < 3 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	keep := make([]bool, len(points))
	keep[0] = true
	keep[len(points)-1] = true

	// Итеративный вариант вместо рекурсии: контуры бывают длинными
	type span struct{ first, last int }
	stack := []span{{0, len(points) - 1}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		maxDist := -1.0
		index := -1
		for i := s.first + 1; i < s.last; i++ {
			d := PerpendicularDistance(points[i], points[s.first], points[s.last])
			if d > maxDist {
				maxDist = d
				index = i
			}
		}

		if index >= 0 && maxDist > tolerance {
			keep[index] = true
			stack = append(stack, span{s.first, index}, span{index, s.last})
		}
	}

	out := make([]Point, 0, len(points))
	for i, p := range points {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// SimplifyPolygon упрощает замкнутый контур.
// Кольцо разрезается в первой вершине и в самой удалённой от неё,
// половины упрощаются независимо. После этого сама опорная вершина
// удаляется, если она лежит на хорде между соседями.
func SimplifyPolygon(poly Polygon, tolerance float64) Polygon {
	n := len(poly)
	if n < 4 {
		out := make(Polygon, n)
		copy(out, poly)
		return out
	}

	split := 0
	far := -1.0
	for i := 1; i < n; i++ {
		if d := poly[0].DistanceTo(poly[i]); d > far {
			far = d
			split = i
		}
	}

	first := Simplify(poly[:split+1], tolerance)

	second := make([]Point, 0, n-split+1)
	second = append(second, poly[split:]...)
	second = append(second, poly[0])
	second = Simplify(second, tolerance)

	// first: [0 .. split], second: [split .. 0]; стыки не дублируем
	out := make(Polygon, 0, len(first)+len(second))
	out = append(out, first...)
	out = append(out, second[1:len(second)-1]...)

	if len(out) > 3 {
		prev := out[len(out)-1]
		next := out[1]
		if PerpendicularDistance(out[0], prev, next) <= tolerance && onSegment(out[0], prev, next) {
			out = out[1:]
		}
	}
	return out
}

// onSegment - проекция p попадает внутрь отрезка ab (а не на его продолжение)
func onSegment(p, a, b Point) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dot := (p.X-a.X)*dx + (p.Y-a.Y)*dy
	return dot >= 0 && dot <= dx*dx+dy*dy
}
