package api

import (
	"fmt"

	"battlemap-engine/internal/fog"
	"battlemap-engine/internal/geom"
	"battlemap-engine/internal/room"

	"github.com/google/uuid"
)

func pointView(p geom.Point) PointView {
	return PointView{X: p.X, Y: p.Y}
}

func pointViews(points []geom.Point) []PointView {
	if len(points) == 0 {
		return nil
	}
	out := make([]PointView, len(points))
	for i, p := range points {
		out[i] = pointView(p)
	}
	return out
}

func (p PointView) Point() geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

func points(views []PointView) []geom.Point {
	if len(views) == 0 {
		return nil
	}
	out := make([]geom.Point, len(views))
	for i, v := range views {
		out[i] = v.Point()
	}
	return out
}

// NewShapeRecord - фигура движка в DTO
func NewShapeRecord(s fog.Shape) ShapeRecord {
	rec := ShapeRecord{ID: s.ID, Operation: s.Op.String()}
	if s.Geometry == nil {
		return rec
	}
	rec.Kind = s.Geometry.Kind().String()

	switch g := s.Geometry.(type) {
	case fog.Rect:
		rec.Geometry = GeometryView{X: g.X, Y: g.Y, W: g.W, H: g.H}
	case fog.Ellipse:
		rec.Geometry = GeometryView{X: g.X, Y: g.Y, W: g.W, H: g.H}
	case fog.Polygon:
		rec.Geometry = GeometryView{Points: pointViews(g.Points)}
	case fog.Brush:
		rec.Geometry = GeometryView{Points: pointViews(g.Points), Width: g.Width}
	default:
		panic(fmt.Sprintf("api: unhandled geometry %T", g))
	}
	return rec
}

// Shape - DTO в фигуру движка. Вырожденность проверит fog.Mask при добавлении.
func (r ShapeRecord) Shape() (fog.Shape, error) {
	if err := r.Validate(); err != nil {
		return fog.Shape{}, err
	}
	kind, _ := fog.ParseKind(r.Kind)
	op, _ := fog.ParseOperation(r.Operation)

	g := r.Geometry
	var geometry fog.Geometry
	switch kind {
	case fog.KindRect:
		geometry = fog.Rect{X: g.X, Y: g.Y, W: g.W, H: g.H}
	case fog.KindEllipse:
		geometry = fog.Ellipse{X: g.X, Y: g.Y, W: g.W, H: g.H}
	case fog.KindPolygon:
		geometry = fog.Polygon{Points: points(g.Points)}
	case fog.KindBrush:
		geometry = fog.Brush{Points: points(g.Points), Width: g.Width}
	default:
		panic(fmt.Sprintf("api: unhandled shape kind %s", kind))
	}

	return fog.Shape{ID: r.ID, Op: op, Geometry: geometry}, nil
}

// NewShapeLogRecord снимает JSON-журнал с маски
func NewShapeLogRecord(m *fog.Mask) ShapeLogRecord {
	shapes := m.Snapshot()
	rec := ShapeLogRecord{
		Version:         ShapeLogVersion,
		InitiallyHidden: m.Policy().InitiallyHidden,
		Shapes:          make([]ShapeRecord, len(shapes)),
	}
	for i, s := range shapes {
		rec.Shapes[i] = NewShapeRecord(s)
	}
	return rec
}

// Mask собирает маску из журнала. Любая некорректная запись отклоняет журнал целиком.
func (l ShapeLogRecord) Mask() (*fog.Mask, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	shapes := make([]fog.Shape, len(l.Shapes))
	for i, rec := range l.Shapes {
		s, err := rec.Shape()
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		shapes[i] = s
	}

	m := fog.NewMask(fog.Policy{InitiallyHidden: l.InitiallyHidden})
	if err := m.Replace(shapes); err != nil {
		return nil, err
	}
	return m, nil
}

func NewWallRecord(w room.Wall) WallRecord {
	return WallRecord{
		A:              pointView(w.A),
		B:              pointView(w.B),
		ControlPoints:  pointViews(w.ControlPoints),
		BlocksMovement: w.BlocksMovement,
		BlocksVision:   w.BlocksVision,
		BlocksSound:    w.BlocksSound,
	}
}

func (w WallRecord) Wall() room.Wall {
	return room.Wall{
		A:              w.A.Point(),
		B:              w.B.Point(),
		ControlPoints:  points(w.ControlPoints),
		BlocksMovement: w.BlocksMovement,
		BlocksVision:   w.BlocksVision,
		BlocksSound:    w.BlocksSound,
	}
}

// Walls - список стен для детектора
func Walls(records []WallRecord) []room.Wall {
	out := make([]room.Wall, len(records))
	for i, r := range records {
		out[i] = r.Wall()
	}
	return out
}

// NewBoundaryRecord присваивает найденному контуру новый id
func NewBoundaryRecord(b room.Boundary) BoundaryRecord {
	return BoundaryRecord{
		ID:     uuid.NewString(),
		Points: pointViews(b.Points),
	}
}

// RevealShape - фигура, открывающая комнату: polygon + subtract.
// id фигуры совпадает с id контура, чтобы комнату можно было связать с ней.
func (b BoundaryRecord) RevealShape() fog.Shape {
	return fog.Shape{
		ID:       b.ID,
		Op:       fog.OpSubtract,
		Geometry: fog.Polygon{Points: points(b.Points)},
	}
}

// Room заводит запись комнаты по контуру
func (b BoundaryRecord) Room(name, color string) RoomRecord {
	return RoomRecord{
		ID:       uuid.NewString(),
		Name:     name,
		Color:    color,
		Points:   b.Points,
		ShapeIDs: []string{b.ID},
	}
}

func (r GeometryView) Rect() geom.Rect {
	return geom.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}.Normalize()
}
