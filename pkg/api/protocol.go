package api

// Формат хранения и обмена для хоста: журнал фигур тумана, стены, контуры комнат.
// Все координаты - мировые (пиксели карты).

// ShapeLogVersion - текущая версия JSON-журнала
const ShapeLogVersion = 1

// PointView - точка в мировых координатах
type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ShapeLogRecord - корневой объект JSON-журнала тумана.
// Порядок Shapes значим: последующие фигуры перекрывают предыдущие.
type ShapeLogRecord struct {
	Version int `json:"version"`

	// InitiallyHidden - состояние точки до применения фигур
	InitiallyHidden bool `json:"initiallyHidden"`

	Shapes []ShapeRecord `json:"shapes"`
}

// ShapeRecord - одна фигура журнала {id, kind, operation, geometry}
type ShapeRecord struct {
	ID string `json:"id"`

	// Kind: rect, ellipse, polygon, brush
	Kind string `json:"kind"`

	// Operation: add (спрятать) или subtract (открыть)
	Operation string `json:"operation"`

	Geometry GeometryView `json:"geometry"`
}

// GeometryView - объединение полей всех видов геометрии.
// rect/ellipse используют x, y, w, h (для эллипса это описанный прямоугольник),
// polygon - points, brush - points и width.
type GeometryView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`

	Points []PointView `json:"points,omitempty"`
	Width  float64     `json:"width,omitempty"`
}

// WallRecord - стена из редактора стен
type WallRecord struct {
	A PointView `json:"a"`
	B PointView `json:"b"`

	// ControlPoints - контрольные точки кривой. Детектор комнат их игнорирует.
	ControlPoints []PointView `json:"controlPoints,omitempty"`

	BlocksMovement bool `json:"blocksMovement"`
	BlocksVision   bool `json:"blocksVision"`
	BlocksSound    bool `json:"blocksSound"`
}

// BoundaryRecord - найденный контур комнаты {id, points[]}
type BoundaryRecord struct {
	ID     string      `json:"id"`
	Points []PointView `json:"points"`
}

// RoomRecord - комната, как её хранит хост: контур и фигуры тумана, которые она открывает
type RoomRecord struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Color    string      `json:"color,omitempty"`
	Points   []PointView `json:"points"`
	ShapeIDs []string    `json:"shapeIds,omitempty"`
}

// DetectRequest - входные данные для поиска комнаты (cmd/mapgeom detect)
type DetectRequest struct {
	Start  PointView    `json:"start"`
	Bounds GeometryView `json:"bounds"`
	Walls  []WallRecord `json:"walls"`
}
