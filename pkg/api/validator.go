package api

import (
	"errors"
	"fmt"
	"math"

	"battlemap-engine/internal/fog"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (p PointView) Validate() error {
	if !finite(p.X, p.Y) {
		return errors.New("point coordinates must be finite")
	}
	return nil
}

func validatePoints(points []PointView, minCount int) error {
	if len(points) < minCount {
		return fmt.Errorf("need at least %d points, got %d", minCount, len(points))
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
	}
	return nil
}

func (r ShapeRecord) Validate() error {
	kind, err := fog.ParseKind(r.Kind)
	if err != nil {
		return err
	}
	if _, err := fog.ParseOperation(r.Operation); err != nil {
		return err
	}

	g := r.Geometry
	switch kind {
	case fog.KindRect, fog.KindEllipse:
		if !finite(g.X, g.Y, g.W, g.H) {
			return errors.New("geometry must be finite")
		}
		if g.W == 0 || g.H == 0 {
			return fmt.Errorf("%s must have non-zero size", kind)
		}
	case fog.KindPolygon:
		return validatePoints(g.Points, 3)
	case fog.KindBrush:
		if !(g.Width > 0) || !finite(g.Width) {
			return errors.New("brush width must be positive")
		}
		return validatePoints(g.Points, 1)
	default:
		panic(fmt.Sprintf("api: unhandled shape kind %s", kind))
	}
	return nil
}

func (l ShapeLogRecord) Validate() error {
	if l.Version != ShapeLogVersion {
		return fmt.Errorf("unsupported shape log version %d", l.Version)
	}
	seen := make(map[string]struct{}, len(l.Shapes))
	for i, s := range l.Shapes {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("shape %d (%s): %w", i, s.ID, err)
		}
		if s.ID == "" {
			continue
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("shape %d: %w: %s", i, fog.ErrDuplicateID, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

func (w WallRecord) Validate() error {
	if err := w.A.Validate(); err != nil {
		return fmt.Errorf("a: %w", err)
	}
	if err := w.B.Validate(); err != nil {
		return fmt.Errorf("b: %w", err)
	}
	return nil
}

func (b BoundaryRecord) Validate() error {
	if b.ID == "" {
		return errors.New("boundary id is required")
	}
	return validatePoints(b.Points, 3)
}

func (r RoomRecord) Validate() error {
	if r.ID == "" {
		return errors.New("room id is required")
	}
	if r.Name == "" {
		return errors.New("room name is required")
	}
	return validatePoints(r.Points, 3)
}

func (r DetectRequest) Validate() error {
	if err := r.Start.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if !finite(r.Bounds.X, r.Bounds.Y, r.Bounds.W, r.Bounds.H) || r.Bounds.W == 0 || r.Bounds.H == 0 {
		return errors.New("bounds must be a finite non-empty rectangle")
	}
	for i, w := range r.Walls {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("wall %d: %w", i, err)
		}
	}
	return nil
}
