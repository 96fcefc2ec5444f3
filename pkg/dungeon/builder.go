package dungeon

import (
	"math/rand"

	"battlemap-engine/internal/geom"
	"battlemap-engine/internal/room"
)

func createRoom(floor [][]bool, r Rect) {
	for y := r.Y + 1; y < r.Y+r.H; y++ {
		for x := r.X + 1; x < r.X+r.W; x++ {
			floor[y][x] = true
		}
	}
}

func createHCorridor(floor [][]bool, x1, x2, y int) {
	start := min(x1, x2)
	end := max(x1, x2)
	for x := start; x <= end; x++ {
		floor[y][x] = true
	}
}

func createVCorridor(floor [][]bool, y1, y2, x int) {
	start := min(y1, y2)
	end := max(y1, y2)
	for y := start; y <= end; y++ {
		floor[y][x] = true
	}
}

func (b *LayoutBuilder) randRange(min, max int) int {
	return b.rng.Intn(max-min+1) + min
}

// LayoutBuilder предоставляет fluent API для создания раскладки стен
type LayoutBuilder struct {
	width     int
	height    int
	tileSize  float64
	openDoors bool
	rooms     []Rect
	floor     [][]bool
	rng       *rand.Rand
}

// NewLayout создает новый builder
func NewLayout(rng *rand.Rand) *LayoutBuilder {
	return &LayoutBuilder{
		width:    MapWidth,
		height:   MapHeight,
		tileSize: TileSize,
		rng:      rng,
	}
}

// WithSize устанавливает размер карты в тайлах. Сбрасывает уже добавленные комнаты.
func (b *LayoutBuilder) WithSize(width, height int) *LayoutBuilder {
	b.width = width
	b.height = height
	b.floor = nil
	b.rooms = nil
	return b
}

// WithTileSize устанавливает размер тайла в мировых единицах
func (b *LayoutBuilder) WithTileSize(size float64) *LayoutBuilder {
	if size > 0 {
		b.tileSize = size
	}
	return b
}

// WithOpenDoors - двери не блокируют ни движение, ни обзор
func (b *LayoutBuilder) WithOpenDoors() *LayoutBuilder {
	b.openDoors = true
	return b
}

func (b *LayoutBuilder) ensureFloor() {
	if b.floor != nil {
		return
	}
	// Инициализируем карту камнем
	b.floor = make([][]bool, b.height)
	for y := range b.floor {
		b.floor[y] = make([]bool, b.width)
	}
}

// AddRoom вырезает комнату и соединяет её коридором с предыдущей.
// Комната, выходящая за карту, пропускается.
func (b *LayoutBuilder) AddRoom(r Rect) *LayoutBuilder {
	b.ensureFloor()
	if r.W < 2 || r.H < 2 || r.X < 0 || r.Y < 0 || r.X+r.W >= b.width || r.Y+r.H >= b.height {
		return b
	}

	createRoom(b.floor, r)

	// Соединяем с предыдущей комнатой
	if len(b.rooms) > 0 {
		prevX, prevY := b.rooms[len(b.rooms)-1].Center()
		currX, currY := r.Center()

		if b.rng.Intn(2) == 0 {
			createHCorridor(b.floor, prevX, currX, prevY)
			createVCorridor(b.floor, prevY, currY, currX)
		} else {
			createVCorridor(b.floor, prevY, currY, prevX)
			createHCorridor(b.floor, prevX, currX, currY)
		}
	}
	b.rooms = append(b.rooms, r)
	return b
}

// WithRooms генерирует комнаты и коридоры
func (b *LayoutBuilder) WithRooms(maxRooms int) *LayoutBuilder {
	b.ensureFloor()

	for i := 0; i < maxRooms; i++ {
		w := b.randRange(MinSize, MaxSize)
		h := b.randRange(MinSize, MaxSize)
		if b.width-w-1 < 1 || b.height-h-1 < 1 {
			continue
		}
		x := b.randRange(1, b.width-w-1)
		y := b.randRange(1, b.height-h-1)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		// Проверяем пересечения
		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}

		if !failed {
			b.AddRoom(newRoom)
		}
	}

	return b
}

// Build собирает стены
func (b *LayoutBuilder) Build() *Layout {
	b.ensureFloor()

	l := &Layout{
		Width:    b.width,
		Height:   b.height,
		TileSize: b.tileSize,
		Rooms:    append([]Rect(nil), b.rooms...),
		floor:    b.floor,
	}
	l.Walls = append(l.outlineWalls(), l.doorWalls(!b.openDoors)...)
	return l
}

// Layout - готовая раскладка: стены в мировых координатах и исходные комнаты
type Layout struct {
	Width, Height int
	TileSize      float64
	Rooms         []Rect
	Walls         []room.Wall

	floor [][]bool
}

// Bounds - вся карта в мировых координатах
func (l *Layout) Bounds() geom.Rect {
	return geom.Rect{W: float64(l.Width) * l.TileSize, H: float64(l.Height) * l.TileSize}
}

// IsFloor - тайл вырезан (комната или коридор)
func (l *Layout) IsFloor(x, y int) bool {
	if y < 0 || y >= len(l.floor) || x < 0 || x >= len(l.floor[y]) {
		return false
	}
	return l.floor[y][x]
}

// Interior - внутренность комнаты i в мировых координатах
func (l *Layout) Interior(i int) geom.Rect {
	r := l.Rooms[i]
	s := l.TileSize
	return geom.Rect{
		X: float64(r.X+1) * s,
		Y: float64(r.Y+1) * s,
		W: float64(r.W-1) * s,
		H: float64(r.H-1) * s,
	}
}

// RoomCenter - центр внутренности комнаты i (точка для детектора комнат)
func (l *Layout) RoomCenter(i int) geom.Point {
	return l.Interior(i).Center()
}
