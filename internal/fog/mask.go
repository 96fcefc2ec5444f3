package fog

import (
	"fmt"

	"battlemap-engine/internal/geom"
	"battlemap-engine/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Policy задаёт начальное состояние точки перед проигрыванием журнала.
// По умолчанию (InitiallyHidden = false) пустая карта полностью видна,
// а фигуры add закрашивают туман.
type Policy struct {
	InitiallyHidden bool `yaml:"initially_hidden" json:"initiallyHidden"`
}

// record - элемент арены: неизменяемая фигура и её габариты,
// посчитанные один раз при добавлении
type record struct {
	shape  Shape
	bounds geom.Rect
}

func newRecord(s Shape) record {
	return record{shape: s, bounds: Bounds(s.Geometry)}
}

// Mask - упорядоченный журнал фигур тумана.
// Не потокобезопасен: доступ сериализует вызывающая сторона.
type Mask struct {
	policy  Policy
	records []record
	index   map[string]int // id -> позиция в records
}

func NewMask(policy Policy) *Mask {
	return &Mask{
		policy: policy,
		index:  make(map[string]int),
	}
}

func (m *Mask) Policy() Policy { return m.policy }

func (m *Mask) Len() int { return len(m.records) }

// prepare проверяет и нормализует фигуру, не трогая состояние маски
func prepare(s Shape) (Shape, error) {
	if s.Op != OpAdd && s.Op != OpSubtract {
		return Shape{}, fmt.Errorf("%w: %d", ErrInvalidOperation, uint8(s.Op))
	}
	if s.Geometry == nil {
		return Shape{}, fmt.Errorf("%w: missing geometry", ErrDegenerateShape)
	}
	s.Geometry = normalize(s.Geometry)
	if err := validate(s.Geometry); err != nil {
		return Shape{}, err
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return s, nil
}

// Append добавляет фигуру в конец журнала и возвращает сохранённую копию
// (с присвоенным ID, если он был пуст). При ошибке маска не меняется.
func (m *Mask) Append(s Shape) (Shape, error) {
	s, err := prepare(s)
	if err != nil {
		return Shape{}, err
	}
	if _, exists := m.index[s.ID]; exists {
		return Shape{}, fmt.Errorf("%w: %s", ErrDuplicateID, s.ID)
	}

	m.index[s.ID] = len(m.records)
	m.records = append(m.records, newRecord(s))

	logger.Log.WithFields(logrus.Fields{
		"component": "fog_mask",
		"shape_id":  s.ID,
		"kind":      s.Geometry.Kind().String(),
		"op":        s.Op.String(),
		"total":     len(m.records),
	}).Debug("Fog shape appended.")

	return s, nil
}

// Delete удаляет фигуру по id. Отсутствующий id - не ошибка.
func (m *Mask) Delete(id string) bool {
	pos, ok := m.index[id]
	if !ok {
		return false
	}

	// Порядок значим, поэтому сдвигаем хвост, а не меняем с последним
	m.records = append(m.records[:pos], m.records[pos+1:]...)
	m.reindex()

	logger.Log.WithFields(logrus.Fields{
		"component": "fog_mask",
		"shape_id":  id,
		"total":     len(m.records),
	}).Debug("Fog shape deleted.")

	return true
}

func (m *Mask) reindex() {
	m.index = make(map[string]int, len(m.records))
	for i, r := range m.records {
		m.index[r.shape.ID] = i
	}
}

// Get возвращает фигуру по id
func (m *Mask) Get(id string) (Shape, bool) {
	pos, ok := m.index[id]
	if !ok {
		return Shape{}, false
	}
	return m.records[pos].shape, true
}

// Snapshot возвращает копию текущего упорядоченного журнала
func (m *Mask) Snapshot() []Shape {
	out := make([]Shape, len(m.records))
	for i, r := range m.records {
		out[i] = r.shape
	}
	return out
}

// Replace целиком заменяет журнал снимком (например, пришедшим из слоя
// репликации). Если хоть одна запись некорректна, маска не меняется.
func (m *Mask) Replace(shapes []Shape) error {
	records := make([]record, 0, len(shapes))
	index := make(map[string]int, len(shapes))
	for i, s := range shapes {
		prepared, err := prepare(s)
		if err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		if _, exists := index[prepared.ID]; exists {
			return fmt.Errorf("shape %d: %w: %s", i, ErrDuplicateID, prepared.ID)
		}
		index[prepared.ID] = len(records)
		records = append(records, newRecord(prepared))
	}

	m.records = records
	m.index = index

	logger.Log.WithFields(logrus.Fields{
		"component": "fog_mask",
		"total":     len(records),
	}).Debug("Fog snapshot loaded.")
	return nil
}

// IsHidden проигрывает журнал слева направо для точки p
func (m *Mask) IsHidden(p geom.Point) bool {
	hidden := m.policy.InitiallyHidden
	for _, r := range m.records {
		// Быстрый отсев по габаритам
		if !r.bounds.Contains(p) {
			continue
		}
		hidden = apply(hidden, r.shape, p)
	}
	return hidden
}

// IsHiddenIn - то же правило для произвольного снимка журнала.
// Результат зависит только от порядка и геометрии фигур.
func IsHiddenIn(shapes []Shape, policy Policy, p geom.Point) bool {
	hidden := policy.InitiallyHidden
	for _, s := range shapes {
		hidden = apply(hidden, s, p)
	}
	return hidden
}

func apply(hidden bool, s Shape, p geom.Point) bool {
	if s.Geometry == nil {
		return hidden
	}
	switch s.Op {
	case OpAdd:
		if !hidden && Contains(s.Geometry, p) {
			return true
		}
	case OpSubtract:
		if hidden && Contains(s.Geometry, p) {
			return false
		}
	}
	return hidden
}
