package geom

import "math"

// Polygon - замкнутый многоугольник. Первая вершина не дублируется в конце.
type Polygon []Point

// Contains проверяет попадание точки методом трассировки луча (even-odd)
func (poly Polygon) Contains(p Point) bool {
	inside := false
	j := len(poly) - 1

	for i := 0; i < len(poly); i++ {
		xi, yi := poly[i].X, poly[i].Y
		xj, yj := poly[j].X, poly[j].Y

		if ((yi > p.Y) != (yj > p.Y)) &&
			(p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// SignedArea - площадь по формуле шнурков. В экранных координатах (Y вниз)
// положительна для обхода по часовой стрелке.
func (poly Polygon) SignedArea() float64 {
	if len(poly) < 3 {
		return 0
	}
	sum := 0.0
	j := len(poly) - 1
	for i := range poly {
		sum += poly[j].X*poly[i].Y - poly[i].X*poly[j].Y
		j = i
	}
	return sum / 2
}

func (poly Polygon) Area() float64 {
	return math.Abs(poly.SignedArea())
}

// Bounds возвращает ограничивающий прямоугольник. Для пустого полигона - нулевой.
func (poly Polygon) Bounds() Rect {
	return BoundsOf(poly)
}

// Edges возвращает рёбра полигона, включая замыкающее
func (poly Polygon) Edges() []Segment {
	if len(poly) < 2 {
		return nil
	}
	edges := make([]Segment, 0, len(poly))
	for i := range poly {
		edges = append(edges, Segment{A: poly[i], B: poly[(i+1)%len(poly)]})
	}
	return edges
}

// Flat разворачивает вершины в плоский список [x0, y0, x1, y1, ...]
func (poly Polygon) Flat() []float64 {
	out := make([]float64, 0, len(poly)*2)
	for _, p := range poly {
		out = append(out, p.X, p.Y)
	}
	return out
}

// FromFlat собирает полигон из плоского списка координат.
// Непарный хвост отбрасывается.
func FromFlat(coords []float64) Polygon {
	poly := make(Polygon, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		poly = append(poly, Point{X: coords[i], Y: coords[i+1]})
	}
	return poly
}

// BoundsOf - ограничивающий прямоугольник набора точек
func BoundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// DistanceToPolyline - минимальное расстояние от точки до ломаной.
// Ломаная из одной точки трактуется как точка.
func DistanceToPolyline(p Point, line []Point) float64 {
	switch len(line) {
	case 0:
		return math.Inf(1)
	case 1:
		return p.DistanceTo(line[0])
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(line); i++ {
		d := Segment{A: line[i], B: line[i+1]}.DistanceToPoint(p)
		if d < best {
			best = d
		}
	}
	return best
}

// IsCollinear - все вершины лежат на одной прямой (или совпадают).
// Самопересекающийся многоугольник может иметь нулевую знаковую площадь,
// но не быть вырожденным.
func (poly Polygon) IsCollinear() bool {
	if len(poly) < 3 {
		return true
	}
	origin := poly[0]
	var dir Point
	found := false
	for _, p := range poly[1:] {
		if p != origin {
			dir = p.Sub(origin)
			found = true
			break
		}
	}
	if !found {
		return true
	}
	for _, p := range poly[1:] {
		d := p.Sub(origin)
		if dir.X*d.Y-dir.Y*d.X != 0 {
			return false
		}
	}
	return true
}
