package dungeon

import (
	"battlemap-engine/internal/geom"
	"battlemap-engine/internal/room"
)

// outlineWalls - границы между полом и камнем, соседние рёбра на одной
// линии склеиваются в одну стену
func (l *Layout) outlineWalls() []room.Wall {
	var walls []room.Wall

	// Горизонтальные рёбра: между рядами y-1 и y
	for y := 0; y <= l.Height; y++ {
		start := -1
		for x := 0; x <= l.Width; x++ {
			edge := x < l.Width && l.IsFloor(x, y-1) != l.IsFloor(x, y)
			if edge && start < 0 {
				start = x
			}
			if !edge && start >= 0 {
				walls = append(walls, l.wall(start, y, x, y, true))
				start = -1
			}
		}
	}

	// Вертикальные рёбра: между колонками x-1 и x
	for x := 0; x <= l.Width; x++ {
		start := -1
		for y := 0; y <= l.Height; y++ {
			edge := y < l.Height && l.IsFloor(x-1, y) != l.IsFloor(x, y)
			if edge && start < 0 {
				start = y
			}
			if !edge && start >= 0 {
				walls = append(walls, l.wall(x, start, x, y, true))
				start = -1
			}
		}
	}

	return walls
}

// doorWalls ставит дверь в каждом проёме, которым коридор прорезал кайму комнаты
func (l *Layout) doorWalls(closed bool) []room.Wall {
	var doors []room.Wall
	for _, r := range l.Rooms {
		for x := r.X + 1; x < r.X+r.W; x++ {
			if l.IsFloor(x, r.Y) {
				doors = append(doors, l.wall(x, r.Y+1, x+1, r.Y+1, closed))
			}
			if l.IsFloor(x, r.Y+r.H) {
				doors = append(doors, l.wall(x, r.Y+r.H, x+1, r.Y+r.H, closed))
			}
		}
		for y := r.Y + 1; y < r.Y+r.H; y++ {
			if l.IsFloor(r.X, y) {
				doors = append(doors, l.wall(r.X+1, y, r.X+1, y+1, closed))
			}
			if l.IsFloor(r.X+r.W, y) {
				doors = append(doors, l.wall(r.X+r.W, y, r.X+r.W, y+1, closed))
			}
		}
	}
	return doors
}

func (l *Layout) wall(x0, y0, x1, y1 int, blocking bool) room.Wall {
	s := l.TileSize
	return room.Wall{
		A:              geom.Point{X: float64(x0) * s, Y: float64(y0) * s},
		B:              geom.Point{X: float64(x1) * s, Y: float64(y1) * s},
		BlocksMovement: blocking,
		BlocksVision:   blocking,
		BlocksSound:    blocking,
	}
}
