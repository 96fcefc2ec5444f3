package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"battlemap-engine/internal/fog"
	"battlemap-engine/internal/geom"
)

// Load читает журнал name из SaveDir
func (s *ShapeLogService) Load(name string) (*ShapeLog, error) {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(bufio.NewReader(f))
}

// Read декодирует журнал формата .fogl.
// Геометрия не проверяется на вырожденность: это делает fog.Mask.Replace.
func Read(r io.Reader) (*ShapeLog, error) {
	// 1. Читаем заголовок целиком
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("%w: %d (expected %d)", ErrUnsupportedVersion, header.Version, Version1)
	}
	if header.ShapeCount < 0 {
		return nil, fmt.Errorf("%w: negative shape count %d", ErrCorruptShape, header.ShapeCount)
	}

	log := &ShapeLog{
		Timestamp: header.Timestamp,
		Shapes:    make([]fog.Shape, 0, min(int(header.ShapeCount), 1024)),
	}

	// 2. Читаем фигуры
	for i := 0; i < int(header.ShapeCount); i++ {
		shape, err := readShape(r)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		log.Shapes = append(log.Shapes, shape)
	}

	return log, nil
}

func readShape(r io.Reader) (fog.Shape, error) {
	var sh ShapeHeader
	if err := binary.Read(r, binary.LittleEndian, &sh); err != nil {
		return fog.Shape{}, err
	}
	if sh.ValueCount > maxValueCount {
		return fog.Shape{}, fmt.Errorf("%w: %d values", ErrCorruptShape, sh.ValueCount)
	}

	idBuf := make([]byte, sh.IDLen)
	if _, err := io.ReadFull(r, idBuf); err != nil {
		return fog.Shape{}, err
	}

	values := make([]float64, sh.ValueCount)
	if len(values) > 0 {
		if err := binary.Read(r, binary.LittleEndian, values); err != nil {
			return fog.Shape{}, err
		}
	}
	if !finiteValues(values) {
		return fog.Shape{}, fmt.Errorf("%w: non-finite value", ErrCorruptShape)
	}

	op := fog.Operation(sh.Op)
	if op != fog.OpAdd && op != fog.OpSubtract {
		return fog.Shape{}, fmt.Errorf("%w: op %d", fog.ErrInvalidOperation, sh.Op)
	}

	g, err := decodeGeometry(fog.Kind(sh.Kind), values)
	if err != nil {
		return fog.Shape{}, err
	}

	return fog.Shape{ID: string(idBuf), Op: op, Geometry: g}, nil
}

func decodeGeometry(kind fog.Kind, values []float64) (fog.Geometry, error) {
	switch kind {
	case fog.KindRect, fog.KindEllipse:
		if len(values) != 4 {
			return nil, fmt.Errorf("%w: %s needs 4 values, got %d", ErrCorruptShape, kind, len(values))
		}
		if kind == fog.KindRect {
			return fog.Rect{X: values[0], Y: values[1], W: values[2], H: values[3]}, nil
		}
		return fog.Ellipse{X: values[0], Y: values[1], W: values[2], H: values[3]}, nil
	case fog.KindPolygon:
		if len(values)%2 != 0 {
			return nil, fmt.Errorf("%w: polygon has odd value count %d", ErrCorruptShape, len(values))
		}
		return fog.Polygon{Points: geom.FromFlat(values)}, nil
	case fog.KindBrush:
		if len(values)%2 != 1 {
			return nil, fmt.Errorf("%w: brush needs width and point pairs, got %d values", ErrCorruptShape, len(values))
		}
		return fog.Brush{Width: values[0], Points: geom.FromFlat(values[1:])}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrCorruptShape, uint8(kind))
	}
}
