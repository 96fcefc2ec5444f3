package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/shapelog.schema.json
var shapeLogSchema []byte

var ErrSchemaViolation = errors.New("shape log does not match schema")

var semanticID = regexp.MustCompile(`^[a-zA-Z0-9._:-]+$`)

// shapeIDFormatChecker: UUID или семантический id. Пустой id допустим,
// маска назначит его при добавлении.
type shapeIDFormatChecker struct{}

func (shapeIDFormatChecker) IsFormat(input interface{}) bool {
	s, ok := input.(string)
	if !ok {
		return false
	}
	if s == "" {
		return true
	}
	if _, err := uuid.Parse(s); err == nil {
		return true
	}
	return len(s) <= 255 && semanticID.MatchString(s)
}

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		gojsonschema.FormatCheckers.Add("shape_id", shapeIDFormatChecker{})
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(shapeLogSchema))
	})
	return compiledSchema, schemaErr
}

// ValidateShapeLog проверяет сырой JSON-журнал по схеме
func ValidateShapeLog(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(details, "; "))
	}
	return nil
}

// DecodeShapeLog: схема, затем разбор и проверка DTO
func DecodeShapeLog(data []byte) (ShapeLogRecord, error) {
	if err := ValidateShapeLog(data); err != nil {
		return ShapeLogRecord{}, err
	}
	var rec ShapeLogRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return ShapeLogRecord{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return ShapeLogRecord{}, err
	}
	return rec, nil
}
