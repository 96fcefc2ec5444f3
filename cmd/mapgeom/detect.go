package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"battlemap-engine/internal/fog"
	"battlemap-engine/internal/geom"
	"battlemap-engine/internal/room"
	"battlemap-engine/pkg/api"
	"battlemap-engine/pkg/dungeon"
	"battlemap-engine/pkg/logger"

	"github.com/sirupsen/logrus"
)

func addRoomFlags(fs *flag.FlagSet, base room.Options) *room.Options {
	opts := base
	fs.Float64Var(&opts.Resolution, "resolution", base.Resolution, "Raster step in world units")
	fs.Float64Var(&opts.ToleranceFactor, "tolerance", base.ToleranceFactor, "Simplification tolerance in resolution units")
	fs.BoolVar(&opts.BlockingOnly, "blocking-only", base.BlockingOnly, "Ignore walls that block neither movement nor vision")
	return &opts
}

func readRequest(path string) (api.DetectRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return api.DetectRequest{}, err
		}
		defer f.Close()
		r = f
	}

	var req api.DetectRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return api.DetectRequest{}, fmt.Errorf("invalid detect request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return api.DetectRequest{}, err
	}
	return req, nil
}

// detect запускает поиск через планировщик, чтобы Ctrl+C прерывал долгую заливку
func detect(req room.Request) (room.Boundary, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res := <-room.NewScheduler().Submit(ctx, req)
	return res.Boundary, res.Err
}

func runDetect(e *env, args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	in := fs.String("in", "-", "Detect request JSON file ('-' for stdin)")
	opts := addRoomFlags(fs, e.cfg.Room)
	reveal := fs.Bool("reveal", false, "Append the detected room to the fog log as a subtract polygon")
	logName := fs.String("log", "", "Fog log file name inside storage dir (with -reveal)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	req, err := readRequest(*in)
	if err != nil {
		return err
	}

	b, err := detect(room.Request{
		Start:  req.Start.Point(),
		Walls:  api.Walls(req.Walls),
		Bounds: req.Bounds.Rect(),
		Opts:   *opts,
	})
	if errors.Is(err, room.ErrNoRegion) {
		logger.Log.WithError(err).Warn("Could not detect an enclosed room.")
		return e.printJSON(map[string]any{"found": false, "reason": err.Error()})
	}
	if err != nil {
		return err
	}

	rec := api.NewBoundaryRecord(b)
	if *reveal {
		st, err := openFog(e, *logName)
		if err != nil {
			return err
		}
		if _, err := st.mask.Append(rec.RevealShape()); err != nil {
			return err
		}
		if err := st.save(); err != nil {
			return err
		}
	}
	return e.printJSON(rec)
}

type demoReport struct {
	Seed     int64              `json:"seed"`
	Rooms    int                `json:"rooms"`
	Walls    int                `json:"walls"`
	Room     api.RoomRecord     `json:"room"`
	Boundary api.BoundaryRecord `json:"boundary"`

	// Проверки тумана: центр найденной комнаты открыт, центр другой комнаты скрыт
	CenterHidden bool  `json:"centerHidden"`
	OtherHidden  *bool `json:"otherHidden,omitempty"`
}

func runDemo(e *env, args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	seed := fs.Int64("seed", 1, "Dungeon seed")
	opts := addRoomFlags(fs, e.cfg.Room)
	open := fs.Bool("open-doors", false, "Generate open doors")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	// 1. Раскладка
	builder := dungeon.NewLayout(newRand(*seed)).
		WithSize(dungeon.MapWidth, dungeon.MapHeight).
		WithTileSize(e.cfg.Grid.CellSize)
	if *open {
		builder = builder.WithOpenDoors()
	}
	layout := builder.WithRooms(dungeon.MaxRooms).Build()

	log := logger.Log.WithFields(logrus.Fields{
		"seed":  *seed,
		"rooms": len(layout.Rooms),
		"walls": len(layout.Walls),
	})
	log.Info("Layout generated.")

	// 2. Поиск первой комнаты
	b, err := detect(room.Request{
		Start:  layout.RoomCenter(0),
		Walls:  layout.Walls,
		Bounds: layout.Bounds(),
		Opts:   *opts,
	})
	if err != nil {
		return err
	}

	// 3. Туман: вся карта скрыта, комната открыта
	mask := fog.NewMask(e.cfg.Fog)
	if _, err := mask.Append(fog.Shape{Op: fog.OpAdd, Geometry: rectShape(layout.Bounds())}); err != nil {
		return err
	}
	rec := api.NewBoundaryRecord(b)
	if _, err := mask.Append(rec.RevealShape()); err != nil {
		return err
	}

	report := demoReport{
		Seed:         *seed,
		Rooms:        len(layout.Rooms),
		Walls:        len(layout.Walls),
		Room:         rec.Room("Room 1", "#c0a060"),
		Boundary:     rec,
		CenterHidden: mask.IsHidden(layout.RoomCenter(0)),
	}
	if len(layout.Rooms) > 1 {
		hidden := mask.IsHidden(layout.RoomCenter(len(layout.Rooms) - 1))
		report.OtherHidden = &hidden
	}

	log.WithField("vertices", len(b.Points)).Info("Room revealed.")
	return e.printJSON(report)
}

func rectShape(r geom.Rect) fog.Rect {
	return fog.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
