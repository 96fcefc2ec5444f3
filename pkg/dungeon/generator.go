package dungeon

import (
	"math/rand"
)

// Константы генерации (в тайлах)
const (
	MapWidth  = 40
	MapHeight = 25
	MaxRooms  = 8
	MinSize   = 4
	MaxSize   = 10

	// TileSize - размер тайла в мировых единицах по умолчанию
	TileSize = 50.0
)

// Rect - Вспомогательная структура для комнаты (в тайлах).
// Внутренность комнаты - тайлы [X+1, X+W-1] x [Y+1, Y+H-1], кайма остаётся камнем.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Generate создает случайную раскладку стен с закрытыми дверями.
// Одинаковый seed даёт одинаковую карту.
func Generate(seed int64) *Layout {
	rng := rand.New(rand.NewSource(seed))
	return NewLayout(rng).
		WithSize(MapWidth, MapHeight).
		WithRooms(MaxRooms).
		Build()
}
