package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList stores a slice as JSON text. NULL and empty text read back as
// an empty slice and a nil slice is written as "[]".
type JSONList[T any] []T

// GormDataType implements schema.GormDataTypeInterface
func (JSONList[T]) GormDataType() string {
	return "text"
}

// Value implements driver.Valuer
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, fmt.Errorf("failed to encode json list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *JSONList[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into json list", src)
	}
	if len(raw) == 0 {
		*l = JSONList[T]{}
		return nil
	}
	out := make([]T, 0)
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode json list: %w", err)
	}
	*l = out
	return nil
}
