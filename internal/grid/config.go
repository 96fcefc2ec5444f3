package grid

import (
	"fmt"
	"math"
	"strings"
)

// Kind - тип сетки карты
type Kind uint8

const (
	KindNone Kind = iota
	KindSquare
	KindHexPointy
	KindHexFlat
	KindIsometric
)

var kindNames = map[Kind]string{
	KindNone:      "none",
	KindSquare:    "square",
	KindHexPointy: "hex-pointy",
	KindHexFlat:   "hex-flat",
	KindIsometric: "isometric",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind разбирает имя типа сетки (без учёта регистра)
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown grid kind %q", s)
}

// MarshalText нужен, чтобы Kind писался строкой и в JSON, и в YAML
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown grid kind %d", uint8(k))
	}
	return []byte(name), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Config - параметры сетки. Передаётся по значению в каждый запрос,
// изменение влияет только на последующие вызовы.
type Config struct {
	Kind     Kind    `yaml:"kind" json:"kind"`
	CellSize float64 `yaml:"cell_size" json:"cellSize"`
	OffsetX  float64 `yaml:"offset_x" json:"offsetX"`
	OffsetY  float64 `yaml:"offset_y" json:"offsetY"`
}

// Validate проверяет, что сетка пригодна для расчётов.
// Для KindNone размер ячейки не важен.
func (c Config) Validate() error {
	if _, ok := kindNames[c.Kind]; !ok {
		return fmt.Errorf("unknown grid kind %d", uint8(c.Kind))
	}
	if c.Kind == KindNone {
		return nil
	}
	if !(c.CellSize > 0) || math.IsInf(c.CellSize, 0) {
		return fmt.Errorf("cell size must be positive, got %v", c.CellSize)
	}
	return nil
}

// Производные размеры гексов.
// Pointy-top: высота = CellSize, ширина = CellSize*√3/2, шаг ряда = 0.75*CellSize.
// Flat-top - транспонированный вариант.

func (c Config) hexWidth() float64 {
	return c.CellSize * math.Sqrt(3) / 2
}

func (c Config) hexPitch() float64 {
	return c.CellSize * 0.75
}

// HexWidth - ширина pointy-гекса (или высота flat-гекса)
func (c Config) HexWidth() float64 { return c.hexWidth() }

// RowPitch - шаг между рядами (pointy) или колонками (flat)
func (c Config) RowPitch() float64 { return c.hexPitch() }

// Размеры изометрического тайла: ширина = CellSize, высота = CellSize/2
func (c Config) tileW() float64 { return c.CellSize }
func (c Config) tileH() float64 { return c.CellSize / 2 }
