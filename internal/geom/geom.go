package geom

import "math"

// Point - точка в мировых координатах (пиксели карты)
type Point struct {
	X, Y float64
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// DistanceTo возвращает евклидово расстояние до другой точки
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Rect - прямоугольник, выровненный по осям. X, Y - левый верхний угол.
type Rect struct {
	X, Y, W, H float64
}

// Normalize разворачивает прямоугольник с отрицательной шириной/высотой
// (например, если пользователь тянул рамку справа налево).
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

func (r Rect) MaxX() float64 { return r.X + r.W }
func (r Rect) MaxY() float64 { return r.Y + r.H }

func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains - включающая проверка (границы считаются внутренними)
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Expand возвращает прямоугольник, расширенный на d во все стороны
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Segment - отрезок между двумя точками
type Segment struct {
	A, B Point
}

func (s Segment) Length() float64 {
	return s.A.DistanceTo(s.B)
}

// DistanceToPoint возвращает расстояние от точки до отрезка
func (s Segment) DistanceToPoint(p Point) float64 {
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.DistanceTo(s.A)
	}
	t := ((p.X-s.A.X)*dx + (p.Y-s.A.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := Point{X: s.A.X + t*dx, Y: s.A.Y + t*dy}
	return p.DistanceTo(proj)
}

// PerpendicularDistance - расстояние от точки до прямой, проходящей через a и b.
// Для совпадающих a и b возвращает расстояние до a.
func PerpendicularDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return p.DistanceTo(a)
	}
	cross := dx*(a.Y-p.Y) - (a.X-p.X)*dy
	return math.Abs(cross) / length
}

// IsFinite проверяет, что обе координаты - конечные числа
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// IsFinite - все поля прямоугольника конечны
func (r Rect) IsFinite() bool {
	return Point{r.X, r.Y}.IsFinite() && Point{r.W, r.H}.IsFinite()
}

// ClipSegment обрезает отрезок прямоугольником (Лян-Барски).
// Возвращает false, если отрезок целиком снаружи.
func ClipSegment(s Segment, r Rect) (Segment, bool) {
	t0, t1 := 0.0, 1.0
	dx := s.B.X - s.A.X
	dy := s.B.Y - s.A.Y

	edges := [4][2]float64{
		{-dx, s.A.X - r.X},
		{dx, r.MaxX() - s.A.X},
		{-dy, s.A.Y - r.Y},
		{dy, r.MaxY() - s.A.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return Segment{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return Segment{}, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return Segment{}, false
			}
			t1 = math.Min(t1, t)
		}
	}

	return Segment{
		A: Point{X: s.A.X + t0*dx, Y: s.A.Y + t0*dy},
		B: Point{X: s.A.X + t1*dx, Y: s.A.Y + t1*dy},
	}, true
}
