package grid

import (
	"encoding/json"
	"math"
	"testing"

	"battlemap-engine/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKinds = []Config{
	{Kind: KindNone},
	{Kind: KindSquare, CellSize: 50},
	{Kind: KindSquare, CellSize: 32, OffsetX: 7, OffsetY: -13},
	{Kind: KindHexPointy, CellSize: 60},
	{Kind: KindHexPointy, CellSize: 45, OffsetX: 10, OffsetY: 3},
	{Kind: KindHexFlat, CellSize: 60},
	{Kind: KindHexFlat, CellSize: 38, OffsetX: -5, OffsetY: 22},
	{Kind: KindIsometric, CellSize: 64},
	{Kind: KindIsometric, CellSize: 40, OffsetX: 12, OffsetY: 8},
}

// samplePoints - детерминированный набор точек, включая отрицательные координаты
func samplePoints() []geom.Point {
	var pts []geom.Point
	for i := -7; i <= 7; i++ {
		for j := -7; j <= 7; j++ {
			pts = append(pts, geom.Point{X: float64(i)*37.3 + 0.31*float64(j), Y: float64(j)*29.7 - 0.17*float64(i)})
		}
	}
	return pts
}

func TestSnap_Idempotent(t *testing.T) {
	for _, cfg := range allKinds {
		t.Run(cfg.Kind.String(), func(t *testing.T) {
			for _, p := range samplePoints() {
				once := cfg.Snap(p)
				twice := cfg.Snap(once)
				assert.InDelta(t, once.X, twice.X, 1e-9, "p=%v", p)
				assert.InDelta(t, once.Y, twice.Y, 1e-9, "p=%v", p)
			}
		})
	}
}

func TestCellShape_ContainsPoint(t *testing.T) {
	for _, cfg := range allKinds {
		if cfg.Kind == KindNone {
			continue
		}
		t.Run(cfg.Kind.String(), func(t *testing.T) {
			for _, p := range samplePoints() {
				shape, ok := cfg.CellShape(p)
				require.True(t, ok)
				assert.True(t, shape.Contains(p), "cell shape %v must contain %v", shape, p)
			}
		})
	}
}

func TestToCell_ToWorld_RoundTrip(t *testing.T) {
	for _, cfg := range allKinds {
		if cfg.Kind == KindNone {
			continue
		}
		t.Run(cfg.Kind.String(), func(t *testing.T) {
			for col := -4; col <= 4; col++ {
				for row := -4; row <= 4; row++ {
					cell := Cell{Col: col, Row: row}
					assert.Equal(t, cell, cfg.ToCell(cfg.ToWorld(cell)))
				}
			}
		})
	}
}

func TestSquare_Example(t *testing.T) {
	cfg := Config{Kind: KindSquare, CellSize: 50}
	p := geom.Point{X: 12, Y: 77}

	assert.Equal(t, Cell{Col: 0, Row: 1}, cfg.ToCell(p))
	assert.Equal(t, geom.Point{X: 25, Y: 75}, cfg.Snap(p))

	shape, ok := cfg.CellShape(p)
	require.True(t, ok)
	require.Len(t, shape, 4)
	assert.Equal(t, geom.Rect{X: 0, Y: 50, W: 50, H: 50}, shape.Bounds())
}

func TestSquare_Offset(t *testing.T) {
	cfg := Config{Kind: KindSquare, CellSize: 50, OffsetX: 10, OffsetY: 20}
	assert.Equal(t, Cell{Col: -1, Row: -1}, cfg.ToCell(geom.Point{X: 5, Y: 5}))
	assert.Equal(t, geom.Point{X: 35, Y: 45}, cfg.Snap(geom.Point{X: 12, Y: 21}))
}

func TestHexPointy_Example(t *testing.T) {
	cfg := Config{Kind: KindHexPointy, CellSize: 60}

	assert.InDelta(t, 51.96, cfg.HexWidth(), 0.01)
	assert.Equal(t, 45.0, cfg.RowPitch())

	for _, cell := range []Cell{{0, 0}, {1, 1}, {-2, 3}, {5, -1}} {
		center := cfg.ToWorld(cell)
		assert.Equal(t, cell, cfg.ToCell(center))
		assert.Equal(t, center, cfg.ToWorld(cfg.ToCell(center)))
	}

	// Нечётный ряд сдвинут на половину ширины
	assert.InDelta(t, cfg.HexWidth()/2, cfg.ToWorld(Cell{Col: 0, Row: 1}).X, 1e-9)
	assert.InDelta(t, 45, cfg.ToWorld(Cell{Col: 0, Row: 1}).Y, 1e-9)
}

func TestHexFlat_IsTranspose(t *testing.T) {
	pointy := Config{Kind: KindHexPointy, CellSize: 60}
	flat := Config{Kind: KindHexFlat, CellSize: 60}

	for _, p := range samplePoints() {
		pc := pointy.ToCell(p)
		fc := flat.ToCell(geom.Point{X: p.Y, Y: p.X})
		assert.Equal(t, Cell{Col: pc.Row, Row: pc.Col}, fc, "p=%v", p)
	}
}

func TestHexagon_Orientation(t *testing.T) {
	p := geom.Point{X: 0, Y: 0}

	pointy, _ := Config{Kind: KindHexPointy, CellSize: 60}.CellShape(p)
	b := pointy.Bounds()
	assert.InDelta(t, 60, b.H, 1e-9, "pointy-top is CellSize tall")
	assert.InDelta(t, 60*math.Sqrt(3)/2, b.W, 1e-9)

	flat, _ := Config{Kind: KindHexFlat, CellSize: 60}.CellShape(p)
	b = flat.Bounds()
	assert.InDelta(t, 60, b.W, 1e-9, "flat-top is CellSize wide")
	assert.InDelta(t, 60*math.Sqrt(3)/2, b.H, 1e-9)
}

func TestIsometric_Diamond(t *testing.T) {
	cfg := Config{Kind: KindIsometric, CellSize: 64}

	assert.Equal(t, Cell{Col: 1, Row: -1}, cfg.ToCell(geom.Point{X: 64, Y: 0}))
	assert.Equal(t, geom.Point{X: 64, Y: 0}, cfg.ToWorld(Cell{Col: 1, Row: -1}))

	shape, ok := cfg.CellShape(geom.Point{X: 3, Y: 2})
	require.True(t, ok)
	assert.Equal(t, geom.Polygon{{X: 0, Y: -16}, {X: 32, Y: 0}, {X: 0, Y: 16}, {X: -32, Y: 0}}, shape)
}

func TestNone_IsDegenerate(t *testing.T) {
	cfg := Config{Kind: KindNone}
	p := geom.Point{X: 12.5, Y: -3.25}

	assert.Equal(t, p, cfg.Snap(p))
	_, ok := cfg.CellShape(p)
	assert.False(t, ok)

	count := 0
	for range EnumerateLines(geom.Rect{W: 100, H: 100}, cfg) {
		count++
	}
	assert.Zero(t, count)
	assert.Nil(t, cfg.Neighbors(Cell{}))
}

func collect(b geom.Rect, cfg Config) []geom.Segment {
	var out []geom.Segment
	for s := range EnumerateLines(b, cfg) {
		out = append(out, s)
	}
	return out
}

func TestEnumerateLines_Square(t *testing.T) {
	cfg := Config{Kind: KindSquare, CellSize: 50}
	lines := collect(geom.Rect{X: 0, Y: 0, W: 200, H: 100}, cfg)

	// 5 вертикальных (0..200) и 3 горизонтальных (0..100)
	require.Len(t, lines, 8)
	assert.Equal(t, geom.Segment{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 0, Y: 100}}, lines[0])
	assert.Equal(t, geom.Segment{A: geom.Point{X: 0, Y: 100}, B: geom.Point{X: 200, Y: 100}}, lines[7])
}

func TestEnumerateLines_Restartable(t *testing.T) {
	for _, cfg := range allKinds {
		seq := EnumerateLines(geom.Rect{X: -30, Y: 10, W: 170, H: 120}, cfg)

		var first, second []geom.Segment
		for s := range seq {
			first = append(first, s)
		}
		for s := range seq {
			second = append(second, s)
		}
		assert.Equal(t, first, second, cfg.Kind.String())
	}
}

func TestEnumerateLines_EarlyStop(t *testing.T) {
	cfg := Config{Kind: KindHexPointy, CellSize: 30}
	count := 0
	for range EnumerateLines(geom.Rect{W: 1000, H: 1000}, cfg) {
		count++
		if count == 10 {
			break
		}
	}
	assert.Equal(t, 10, count)
}

func TestEnumerateLines_Hex(t *testing.T) {
	cfg := Config{Kind: KindHexFlat, CellSize: 40}
	lines := collect(geom.Rect{W: 100, H: 100}, cfg)

	require.NotEmpty(t, lines)
	assert.Zero(t, len(lines)%6, "six edges per hexagon")
	for _, s := range lines {
		assert.InDelta(t, 20, s.Length(), 1e-9, "edge length equals circumradius")
	}
}

func TestEnumerateLines_Isometric(t *testing.T) {
	cfg := Config{Kind: KindIsometric, CellSize: 40}
	b := geom.Rect{W: 100, H: 60}
	lines := collect(b, cfg)

	n := IsoLineCount(b, cfg)
	assert.Equal(t, 2*int(math.Ceil(160.0/40)), n)
	require.Len(t, lines, 2*n)

	// Первое семейство идёт вниз-вправо, второе вниз-влево
	down := lines[0]
	assert.Greater(t, down.B.Y, down.A.Y)
	up := lines[n]
	assert.Less(t, up.B.Y, up.A.Y)
}

func TestNeighbors_AreAdjacent(t *testing.T) {
	for _, cfg := range allKinds {
		if cfg.Kind == KindNone {
			continue
		}
		t.Run(cfg.Kind.String(), func(t *testing.T) {
			for _, cell := range []Cell{{0, 0}, {1, 1}, {2, 3}, {-1, -2}} {
				for _, n := range cfg.Neighbors(cell) {
					assert.Equal(t, 1, cfg.Distance(cell, n), "%v -> %v", cell, n)
				}
			}
		})
	}
}

func TestHexNeighbors_Spacing(t *testing.T) {
	cfg := Config{Kind: KindHexPointy, CellSize: 60}
	for _, cell := range []Cell{{0, 0}, {0, 1}, {3, -3}} {
		center := cfg.ToWorld(cell)
		for _, n := range cfg.Neighbors(cell) {
			assert.InDelta(t, cfg.HexWidth(), center.DistanceTo(cfg.ToWorld(n)), 1e-9)
		}
	}
}

func TestDistance(t *testing.T) {
	square := Config{Kind: KindSquare, CellSize: 10}
	assert.Equal(t, 5, square.Distance(Cell{0, 0}, Cell{5, 3}))

	hex := Config{Kind: KindHexPointy, CellSize: 10}
	assert.Equal(t, 3, hex.Distance(Cell{0, 0}, Cell{3, 0}))
	assert.Equal(t, 2, hex.Distance(Cell{0, 0}, Cell{0, 2}))
}

func TestKind_TextMarshal(t *testing.T) {
	cfg := Config{Kind: KindHexFlat, CellSize: 20}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"hex-flat"`)

	var back Config
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, cfg, back)

	_, err = ParseKind("triangle")
	assert.Error(t, err)

	k, err := ParseKind(" Isometric ")
	require.NoError(t, err)
	assert.Equal(t, KindIsometric, k)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Kind: KindNone}.Validate())
	assert.NoError(t, Config{Kind: KindSquare, CellSize: 1}.Validate())
	assert.Error(t, Config{Kind: KindSquare}.Validate())
	assert.Error(t, Config{Kind: KindHexFlat, CellSize: -3}.Validate())
	assert.Error(t, Config{Kind: Kind(42), CellSize: 5}.Validate())
}

func TestCellsIn(t *testing.T) {
	square := Config{Kind: KindSquare, CellSize: 50}
	cells := square.CellsIn(geom.Rect{W: 100, H: 100})
	assert.Equal(t, []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, cells)

	for _, cfg := range allKinds {
		b := geom.Rect{X: -40, Y: -25, W: 180, H: 130}
		for _, cell := range cfg.CellsIn(b) {
			assert.True(t, b.Contains(cfg.ToWorld(cell)), "%s %v", cfg.Kind, cell)
		}
	}
	assert.Nil(t, Config{Kind: KindNone}.CellsIn(geom.Rect{W: 10, H: 10}))
}
