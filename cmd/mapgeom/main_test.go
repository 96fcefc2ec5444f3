package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"battlemap-engine/internal/config"
	"battlemap-engine/internal/geom"
	"battlemap-engine/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) (*env, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	out := &bytes.Buffer{}
	return &env{cfg: cfg, out: out}, out
}

func TestParsePoints(t *testing.T) {
	pts, err := parsePoints("0,0 10,0;10, 10")
	require.Error(t, err, "space after comma splits the pair")
	assert.Nil(t, pts)

	pts, err = parsePoints("0,0 10,0;10,10")
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}, pts)

	pts, err = parsePoints("")
	require.NoError(t, err)
	assert.Empty(t, pts)

	_, err = parsePoints("1;2")
	assert.Error(t, err)
}

func TestRunSnap(t *testing.T) {
	e, out := testEnv(t)
	require.NoError(t, runSnap(e, []string{"-x", "12", "-y", "77"}))

	var p api.PointView
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	assert.Equal(t, api.PointView{X: 25, Y: 75}, p)
}

func TestRunCell_HexWithDistance(t *testing.T) {
	e, out := testEnv(t)
	require.NoError(t, runCell(e, []string{"-kind", "hex-pointy", "-size", "60", "-x", "0", "-y", "0", "-to", "0,0"}))

	var view cellView
	require.NoError(t, json.Unmarshal(out.Bytes(), &view))
	assert.Equal(t, "hex-pointy", view.Kind)
	assert.Len(t, view.Shape, 6)
	assert.Len(t, view.Neighbors, 6)
	require.NotNil(t, view.Distance)
	assert.Zero(t, *view.Distance)
}

func TestRunFog_AddHiddenRemove(t *testing.T) {
	e, out := testEnv(t)

	require.NoError(t, runFog(e, []string{"add", "-id", "all", "-kind", "rect", "-x", "0", "-y", "0", "-w", "100", "-h", "100"}))
	require.NoError(t, runFog(e, []string{"add", "-id", "hole", "-kind", "polygon", "-op", "subtract", "-points", "40,40 60,40 60,60 40,60"}))

	out.Reset()
	require.NoError(t, runFog(e, []string{"hidden", "-x", "50", "-y", "50"}))
	assert.JSONEq(t, `{"hidden": false}`, out.String())

	out.Reset()
	require.NoError(t, runFog(e, []string{"hidden", "-x", "10", "-y", "10"}))
	assert.JSONEq(t, `{"hidden": true}`, out.String())

	out.Reset()
	require.NoError(t, runFog(e, []string{"rm", "-id", "hole"}))
	assert.JSONEq(t, `{"deleted": true}`, out.String())

	out.Reset()
	require.NoError(t, runFog(e, []string{"list"}))
	var log api.ShapeLogRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &log))
	require.Len(t, log.Shapes, 1)
	assert.Equal(t, "all", log.Shapes[0].ID)
}

func TestRunFog_Cells(t *testing.T) {
	e, out := testEnv(t)
	require.NoError(t, runFog(e, []string{"add", "-kind", "rect", "-x", "0", "-y", "0", "-w", "50", "-h", "100"}))

	out.Reset()
	require.NoError(t, runFog(e, []string{"cells", "-x", "0", "-y", "0", "-w", "100", "-h", "50"}))

	var cells []struct {
		Col    int  `json:"col"`
		Row    int  `json:"row"`
		Hidden bool `json:"hidden"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &cells))
	require.Len(t, cells, 2)
	for _, c := range cells {
		assert.Equal(t, c.Col == 0, c.Hidden, "cell %d,%d", c.Col, c.Row)
	}
}

func TestRunDetect_RevealsRoom(t *testing.T) {
	e, out := testEnv(t)

	req := `{
	  "start": {"x": 100, "y": 100},
	  "bounds": {"x": -40, "y": -40, "w": 280, "h": 280},
	  "walls": [
	    {"a": {"x": 0, "y": 0}, "b": {"x": 200, "y": 0}, "blocksMovement": true, "blocksVision": true},
	    {"a": {"x": 200, "y": 0}, "b": {"x": 200, "y": 200}, "blocksMovement": true, "blocksVision": true},
	    {"a": {"x": 200, "y": 200}, "b": {"x": 0, "y": 200}, "blocksMovement": true, "blocksVision": true},
	    {"a": {"x": 0, "y": 200}, "b": {"x": 0, "y": 0}, "blocksMovement": true, "blocksVision": true}
	  ]
	}`
	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(req), 0o644))

	require.NoError(t, runDetect(e, []string{"-in", path, "-reveal"}))

	var b api.BoundaryRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &b))
	require.NoError(t, b.Validate())

	st, err := openFog(e, "")
	require.NoError(t, err)
	assert.Equal(t, 1, st.mask.Len())
	_, ok := st.mask.Get(b.ID)
	assert.True(t, ok)
}

func TestRunDemo(t *testing.T) {
	e, out := testEnv(t)
	require.NoError(t, runDemo(e, []string{"-seed", "3"}))

	var report demoReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.CenterHidden)
	assert.NotEmpty(t, report.Boundary.Points)
	if report.OtherHidden != nil {
		assert.True(t, *report.OtherHidden)
	}
}
