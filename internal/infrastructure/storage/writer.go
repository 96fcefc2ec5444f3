package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"battlemap-engine/internal/fog"
	"battlemap-engine/internal/geom"
	"battlemap-engine/pkg/logger"

	"github.com/sirupsen/logrus"
)

const (
	MagicHeader string = `FOGL` // 4 байта
	Version1    uint32 = 1

	// Ограничение на число значений одной фигуры при чтении,
	// чтобы битый файл не заставил выделить гигабайты
	maxValueCount = 1 << 22
)

var (
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported version")
	ErrCorruptShape       = errors.New("corrupt shape record")
)

// FileHeader - заголовок файла журнала.
// binary.Write пишет его целиком: тут только массивы и числа.
type FileHeader struct {
	Magic      [4]byte // 4 байта
	Version    uint32  // 4 байта
	Timestamp  int64   // 8 байт
	ShapeCount int32   // 4 байта
}

// ShapeHeader - заголовок каждой фигуры.
// За ним идут IDLen байт идентификатора и ValueCount значений float64.
type ShapeHeader struct {
	Kind       uint8  // 1
	Op         uint8  // 1
	IDLen      uint8  // 1
	ValueCount uint32 // 4
}

// ShapeLog - упорядоченный журнал фигур тумана в том виде, в каком он лежит на диске
type ShapeLog struct {
	Timestamp int64
	Shapes    []fog.Shape
}

// NewShapeLog снимает журнал с маски
func NewShapeLog(m *fog.Mask) *ShapeLog {
	return &ShapeLog{
		Timestamp: time.Now().Unix(),
		Shapes:    m.Snapshot(),
	}
}

type ShapeLogService struct {
	SaveDir string
}

func NewShapeLogService(dir string) *ShapeLogService {
	// Создаем папку если нет
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}
	return &ShapeLogService{SaveDir: dir}
}

// Path - полный путь к журналу с именем name
func (s *ShapeLogService) Path(name string) string {
	return filepath.Join(s.SaveDir, name)
}

// Save пишет журнал во временный файл и переименовывает его,
// чтобы оборванная запись не испортила предыдущую версию.
func (s *ShapeLogService) Save(name string, log *ShapeLog) error {
	path := s.Path(name)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := Write(w, log); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "storage",
		"path":      path,
		"shapes":    len(log.Shapes),
	}).Debug("Shape log saved.")

	return os.Rename(tmp, path)
}

// Write кодирует журнал в формат .fogl
func Write(w io.Writer, log *ShapeLog) error {
	// 1. Глобальный заголовок
	header := FileHeader{
		Version:    Version1,
		Timestamp:  log.Timestamp,
		ShapeCount: int32(len(log.Shapes)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// 2. Фигуры
	for i, shape := range log.Shapes {
		if err := writeShape(w, shape); err != nil {
			return fmt.Errorf("shape %d (%s): %w", i, shape.ID, err)
		}
	}
	return nil
}

func writeShape(w io.Writer, shape fog.Shape) error {
	idBytes := []byte(shape.ID)
	if len(idBytes) > 255 {
		return fmt.Errorf("id too long: %d", len(idBytes))
	}
	if shape.Geometry == nil {
		return fmt.Errorf("%w: nil geometry", ErrCorruptShape)
	}

	values := encodeGeometry(shape.Geometry)

	sh := ShapeHeader{
		Kind:       uint8(shape.Geometry.Kind()),
		Op:         uint8(shape.Op),
		IDLen:      uint8(len(idBytes)),
		ValueCount: uint32(len(values)),
	}
	if err := binary.Write(w, binary.LittleEndian, &sh); err != nil {
		return err
	}
	if _, err := w.Write(idBytes); err != nil {
		return err
	}
	if len(values) > 0 {
		if err := binary.Write(w, binary.LittleEndian, values); err != nil {
			return err
		}
	}
	return nil
}

// encodeGeometry раскладывает геометрию в плоский список значений:
// rect/ellipse - x, y, w, h; polygon - x0, y0, ...; brush - width, x0, y0, ...
func encodeGeometry(g fog.Geometry) []float64 {
	switch g := g.(type) {
	case fog.Rect:
		return []float64{g.X, g.Y, g.W, g.H}
	case fog.Ellipse:
		return []float64{g.X, g.Y, g.W, g.H}
	case fog.Polygon:
		return geom.Polygon(g.Points).Flat()
	case fog.Brush:
		values := make([]float64, 0, 1+2*len(g.Points))
		values = append(values, g.Width)
		return append(values, geom.Polygon(g.Points).Flat()...)
	default:
		panic(fmt.Sprintf("storage: unhandled geometry %T", g))
	}
}

func finiteValues(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
