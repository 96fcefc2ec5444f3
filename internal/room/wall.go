package room

import "battlemap-engine/internal/geom"

// Wall - отрезок стены из редактора стен.
// Кривые (ControlPoints) растеризуются как хорда A-B.
type Wall struct {
	A, B          geom.Point
	ControlPoints []geom.Point

	BlocksMovement bool
	BlocksVision   bool
	BlocksSound    bool
}

// Chord возвращает геометрию стены, которую видит детектор
func (w Wall) Chord() geom.Segment {
	return geom.Segment{A: w.A, B: w.B}
}

// Blocking - стена хоть что-то блокирует (открытые двери и окна - нет)
func (w Wall) Blocking() bool {
	return w.BlocksMovement || w.BlocksVision
}

// SolidWall - стена, блокирующая всё
func SolidWall(a, b geom.Point) Wall {
	return Wall{A: a, B: b, BlocksMovement: true, BlocksVision: true, BlocksSound: true}
}

// RectWalls возвращает четыре стены по периметру прямоугольника
func RectWalls(r geom.Rect) []Wall {
	tl := geom.Point{X: r.X, Y: r.Y}
	tr := geom.Point{X: r.MaxX(), Y: r.Y}
	br := geom.Point{X: r.MaxX(), Y: r.MaxY()}
	bl := geom.Point{X: r.X, Y: r.MaxY()}
	return []Wall{SolidWall(tl, tr), SolidWall(tr, br), SolidWall(br, bl), SolidWall(bl, tl)}
}
