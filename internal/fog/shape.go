package fog

import (
	"errors"
	"fmt"
	"math"

	"battlemap-engine/internal/geom"
)

var (
	ErrDegenerateShape  = errors.New("degenerate fog shape")
	ErrInvalidOperation = errors.New("invalid fog operation")
	ErrDuplicateID      = errors.New("duplicate fog shape id")
)

// Operation - что делает фигура: прячет (add) или открывает (subtract)
type Operation uint8

const (
	OpAdd Operation = iota + 1
	OpSubtract
)

func (op Operation) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("Operation(%d)", uint8(op))
	}
}

// ParseOperation разбирает "add" / "subtract"
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "add":
		return OpAdd, nil
	case "subtract":
		return OpSubtract, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperation, s)
	}
}

// Kind - тег варианта геометрии
type Kind uint8

const (
	KindRect Kind = iota + 1
	KindEllipse
	KindPolygon
	KindBrush
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	case KindPolygon:
		return "polygon"
	case KindBrush:
		return "brush"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind разбирает имя вида фигуры
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{KindRect, KindEllipse, KindPolygon, KindBrush} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown fog shape kind %q", s)
}

// Geometry - закрытое объединение: реализовать его могут только типы
// этого пакета (Rect, Ellipse, Polygon, Brush).
type Geometry interface {
	Kind() Kind
	sealed()
}

// Rect - прямоугольник, X/Y - левый верхний угол
type Rect struct {
	X, Y, W, H float64
}

// Ellipse задаётся описанным прямоугольником
type Ellipse struct {
	X, Y, W, H float64
}

// Polygon - замкнутый многоугольник
type Polygon struct {
	Points []geom.Point
}

// Brush - мазок кистью: ломаная, утолщённая до полосы ширины Width
type Brush struct {
	Points []geom.Point
	Width  float64
}

func (Rect) Kind() Kind    { return KindRect }
func (Ellipse) Kind() Kind { return KindEllipse }
func (Polygon) Kind() Kind { return KindPolygon }
func (Brush) Kind() Kind   { return KindBrush }

func (Rect) sealed()    {}
func (Ellipse) sealed() {}
func (Polygon) sealed() {}
func (Brush) sealed()   {}

// Circle - эллипс, вписанный в квадрат вокруг center
func Circle(center geom.Point, radius float64) Ellipse {
	return Ellipse{X: center.X - radius, Y: center.Y - radius, W: 2 * radius, H: 2 * radius}
}

// Shape - одна запись журнала тумана. После добавления в Mask не меняется.
type Shape struct {
	ID       string
	Op       Operation
	Geometry Geometry
}

// unknownGeometry вызывается в default-ветках switch по Geometry.
// Сюда можно попасть только добавив новый вариант и забыв его обработать.
func unknownGeometry(g Geometry) string {
	return fmt.Sprintf("fog: unhandled geometry %T", g)
}

// normalize приводит геометрию к каноническому виду и копирует срезы,
// чтобы вызывающий код не мог изменить запись после добавления.
func normalize(g Geometry) Geometry {
	switch v := g.(type) {
	case Rect:
		r := geom.Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}.Normalize()
		return Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
	case Ellipse:
		r := geom.Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}.Normalize()
		return Ellipse{X: r.X, Y: r.Y, W: r.W, H: r.H}
	case Polygon:
		return Polygon{Points: append([]geom.Point(nil), v.Points...)}
	case Brush:
		return Brush{Points: append([]geom.Point(nil), v.Points...), Width: v.Width}
	default:
		panic(unknownGeometry(g))
	}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finitePoints(pts []geom.Point) bool {
	for _, p := range pts {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

// validate отклоняет вырожденные фигуры. Ожидает нормализованную геометрию.
func validate(g Geometry) error {
	if g == nil {
		return fmt.Errorf("%w: missing geometry", ErrDegenerateShape)
	}
	switch v := g.(type) {
	case Rect:
		if !finite(v.X, v.Y, v.W, v.H) || v.W == 0 || v.H == 0 {
			return fmt.Errorf("%w: rect %vx%v", ErrDegenerateShape, v.W, v.H)
		}
	case Ellipse:
		if !finite(v.X, v.Y, v.W, v.H) || v.W == 0 || v.H == 0 {
			return fmt.Errorf("%w: ellipse %vx%v", ErrDegenerateShape, v.W, v.H)
		}
	case Polygon:
		if len(v.Points) < 3 || !finitePoints(v.Points) || geom.Polygon(v.Points).IsCollinear() {
			return fmt.Errorf("%w: polygon with %d collinear points", ErrDegenerateShape, len(v.Points))
		}
	case Brush:
		if len(v.Points) == 0 || !finitePoints(v.Points) || !finite(v.Width) || v.Width <= 0 {
			return fmt.Errorf("%w: brush with %d points, width %v", ErrDegenerateShape, len(v.Points), v.Width)
		}
	default:
		panic(unknownGeometry(g))
	}
	return nil
}

// Bounds - ограничивающий прямоугольник геометрии
func Bounds(g Geometry) geom.Rect {
	switch v := g.(type) {
	case Rect:
		return geom.Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}
	case Ellipse:
		return geom.Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}
	case Polygon:
		return geom.BoundsOf(v.Points)
	case Brush:
		return geom.BoundsOf(v.Points).Expand(v.Width / 2)
	default:
		panic(unknownGeometry(g))
	}
}

// Contains - попадание точки в геометрию фигуры
func Contains(g Geometry, p geom.Point) bool {
	switch v := g.(type) {
	case Rect:
		return geom.Rect{X: v.X, Y: v.Y, W: v.W, H: v.H}.Contains(p)
	case Ellipse:
		rx, ry := v.W/2, v.H/2
		dx := (p.X - (v.X + rx)) / rx
		dy := (p.Y - (v.Y + ry)) / ry
		return dx*dx+dy*dy <= 1
	case Polygon:
		return geom.Polygon(v.Points).Contains(p)
	case Brush:
		return geom.DistanceToPolyline(p, v.Points) <= v.Width/2
	default:
		panic(unknownGeometry(g))
	}
}
