package room

import (
	"context"
	"errors"
	"math"
	"testing"

	"battlemap-engine/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	room200    = geom.Rect{X: 0, Y: 0, W: 200, H: 200}
	wideBounds = geom.Rect{X: -40, Y: -40, W: 280, H: 280}
)

func TestDetect_EnclosedRoom(t *testing.T) {
	b, err := Detect(geom.Point{X: 100, Y: 100}, RectWalls(room200), wideBounds, DefaultOptions())
	require.NoError(t, err)

	// Заливаются только внутренние клетки: 9x9
	assert.Equal(t, 81, b.FilledCells)

	// Контур проходит по центрам залитых клеток, а не по стенам:
	// от каждой стены он отстоит на клетку, отсюда 160x160 вместо 200x200
	r := DefaultResolution
	area := b.Points.Area()
	assert.GreaterOrEqual(t, area, (200-2*r)*(200-2*r))
	assert.LessOrEqual(t, area, 200.0*200.0)
	assert.InDelta(t, 160.0*160.0, area, 1e-6)

	for _, p := range b.Points {
		assert.True(t, room200.Contains(p), "vertex %v escaped the room", p)
	}
	assert.Len(t, b.Points, 4)
	assert.Len(t, b.Flat(), 8)
}

func TestDetect_BoundsEqualToRoom(t *testing.T) {
	// Правая и нижняя стены ложатся за растр, заливку останавливает край
	b, err := Detect(geom.Point{X: 100, Y: 100}, RectWalls(room200), room200, DefaultOptions())
	require.NoError(t, err)

	r := DefaultResolution
	assert.GreaterOrEqual(t, b.Points.Area(), (200-2*r)*(200-2*r))
	assert.LessOrEqual(t, b.Points.Area(), 200.0*200.0)
}

func TestDetect_NoRegion(t *testing.T) {
	walls := RectWalls(room200)

	tests := []struct {
		name  string
		start geom.Point
		want  error
	}{
		{"on wall", geom.Point{X: 0, Y: 100}, ErrStartOnWall},
		{"outside bounds", geom.Point{X: 500, Y: 500}, ErrStartOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Detect(tt.start, walls, wideBounds, DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrNoRegion)
		})
	}
}

func TestDetect_DegenerateRegion(t *testing.T) {
	// Коридор шириной в одну клетку: контур схлопывается в отрезок
	walls := RectWalls(geom.Rect{X: 0, Y: 0, W: 40, H: 80})
	_, err := Detect(geom.Point{X: 20, Y: 40}, walls, wideBounds, DefaultOptions())
	assert.ErrorIs(t, err, ErrDegenerateContour)
	assert.ErrorIs(t, err, ErrNoRegion)

	// Одна клетка
	walls = RectWalls(geom.Rect{X: 0, Y: 0, W: 40, H: 40})
	_, err = Detect(geom.Point{X: 20, Y: 20}, walls, wideBounds, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoRegion)
}

func TestDetect_OpenRoomLeaksToEdges(t *testing.T) {
	// Без правой стены заливка выходит наружу и упирается в края растра
	walls := RectWalls(room200)[:1]
	walls = append(walls, RectWalls(room200)[2:]...)

	b, err := Detect(geom.Point{X: 100, Y: 100}, walls, wideBounds, DefaultOptions())
	require.NoError(t, err)

	assert.Greater(t, b.FilledCells, 81)
	// Внешний контур - центры крайних клеток растра 14x14
	assert.InDelta(t, 260.0*260.0, b.Points.Area(), 1e-6)
}

func TestDetect_BlockingOnly(t *testing.T) {
	walls := RectWalls(room200)
	// Правая стена - открытая дверь
	walls[1].BlocksMovement = false
	walls[1].BlocksVision = false

	closed, err := Detect(geom.Point{X: 100, Y: 100}, walls, wideBounds, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 81, closed.FilledCells)

	opts := DefaultOptions()
	opts.BlockingOnly = true
	open, err := Detect(geom.Point{X: 100, Y: 100}, walls, wideBounds, opts)
	require.NoError(t, err)
	assert.Greater(t, open.FilledCells, 81)
}

func TestDetect_DiagonalWallsHold(t *testing.T) {
	// Ромб из диагональных стен: линия Брезенхэма 8-связна,
	// 4-связная заливка сквозь неё не проходит
	top := geom.Point{X: 100, Y: 0}
	right := geom.Point{X: 200, Y: 100}
	bottom := geom.Point{X: 100, Y: 200}
	left := geom.Point{X: 0, Y: 100}
	walls := []Wall{
		SolidWall(top, right),
		SolidWall(right, bottom),
		SolidWall(bottom, left),
		SolidWall(left, top),
	}
	bounds := geom.Rect{X: -20, Y: -20, W: 240, H: 240}

	b, err := Detect(geom.Point{X: 100, Y: 100}, walls, bounds, DefaultOptions())
	require.NoError(t, err)

	assert.Less(t, b.FilledCells, 12*12/2)
	assert.Less(t, b.Points.Area(), 100.0*200.0)

	limit := geom.Rect{X: 0, Y: 0, W: 200, H: 200}
	for _, p := range b.Points {
		assert.True(t, limit.Contains(p), "vertex %v escaped the diamond", p)
	}
}

func TestDetect_CurvedWallUsesChord(t *testing.T) {
	walls := RectWalls(room200)
	walls[0].ControlPoints = []geom.Point{{X: 100, Y: -500}}

	b, err := Detect(geom.Point{X: 100, Y: 100}, walls, wideBounds, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 81, b.FilledCells)
}

func TestDetect_ResolutionDefaults(t *testing.T) {
	b, err := Detect(geom.Point{X: 100, Y: 100}, RectWalls(room200), wideBounds, Options{Resolution: -1, ToleranceFactor: -1})
	require.NoError(t, err)
	assert.Equal(t, 81, b.FilledCells)
}

func TestDetect_FinerResolution(t *testing.T) {
	opts := Options{Resolution: 10, ToleranceFactor: DefaultToleranceFactor}
	b, err := Detect(geom.Point{X: 100, Y: 100}, RectWalls(room200), wideBounds, opts)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, b.Points.Area(), 180.0*180.0)
	assert.LessOrEqual(t, b.Points.Area(), 200.0*200.0)
}

func TestDetectContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DetectContext(ctx, geom.Point{X: 100, Y: 100}, RectWalls(room200), wideBounds, DefaultOptions())
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrNoRegion))
}

func TestTraceContour_Block(t *testing.T) {
	r := newRaster(geom.Rect{W: 100, H: 100}, 20)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			r.cells[r.index(x, y)] = cellFilled
		}
	}

	cells, err := r.traceContour(context.Background())
	require.NoError(t, err)

	// Кольцо 3x3 без центральной клетки
	assert.Len(t, cells, 8)
	assert.Equal(t, cellPos{1, 1}, cells[0])
	assert.NotContains(t, cells, cellPos{2, 2})
}

func TestTraceContour_Empty(t *testing.T) {
	r := newRaster(geom.Rect{W: 40, H: 40}, 20)
	_, err := r.traceContour(context.Background())
	assert.ErrorIs(t, err, ErrNothingFilled)
}

func TestDetect_RejectsUnusableBounds(t *testing.T) {
	start := geom.Point{X: 10, Y: 10}
	tests := []struct {
		name   string
		bounds geom.Rect
		want   error
	}{
		{"infinite width", geom.Rect{W: math.Inf(1), H: 100}, ErrInvalidBounds},
		{"infinite origin", geom.Rect{X: math.Inf(-1), W: 100, H: 100}, ErrInvalidBounds},
		{"nan height", geom.Rect{W: 100, H: math.NaN()}, ErrInvalidBounds},
		{"huge raster", geom.Rect{W: 1e9, H: 1e9}, ErrRasterTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = Detect(start, nil, tt.bounds, DefaultOptions())
			})
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrNoRegion)
		})
	}
}

func TestDetect_InfiniteResolutionFallsBack(t *testing.T) {
	opts := DefaultOptions()
	opts.Resolution = math.Inf(1)

	b, err := Detect(geom.Point{X: 100, Y: 100}, RectWalls(room200), wideBounds, opts)
	require.NoError(t, err)
	assert.Equal(t, 81, b.FilledCells)
}

func TestTraceContour_SpurDoesNotClose(t *testing.T) {
	// Верхняя левая клетка - отросток с единственным соседом на востоке:
	// пара (клетка, backtrack) больше не повторяется, срабатывает лимит
	tests := []struct {
		name  string
		cells []cellPos
	}{
		{"domino", []cellPos{{1, 1}, {2, 1}}},
		{"spur over block", []cellPos{
			{1, 1}, {2, 1},
			{2, 2}, {3, 2}, {4, 2},
			{2, 3}, {3, 3}, {4, 3},
			{2, 4}, {3, 4}, {4, 4},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRaster(geom.Rect{W: 120, H: 120}, 20)
			for _, c := range tt.cells {
				r.cells[r.index(c.x, c.y)] = cellFilled
			}

			cells, err := r.traceContour(context.Background())
			assert.Nil(t, cells)
			assert.ErrorIs(t, err, ErrContourNotClosed)
			assert.ErrorIs(t, err, ErrNoRegion)
		})
	}
}

func TestDetect_ContourNotClosed(t *testing.T) {
	// Комната 2x1 клетки: заливка - горизонтальное домино
	walls := RectWalls(geom.Rect{X: 0, Y: 0, W: 60, H: 40})
	_, err := Detect(geom.Point{X: 30, Y: 30}, walls, geom.Rect{W: 80, H: 60}, DefaultOptions())
	assert.ErrorIs(t, err, ErrContourNotClosed)
	assert.ErrorIs(t, err, ErrNoRegion)
}
