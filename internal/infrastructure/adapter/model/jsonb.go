package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// JSONB stores raw JSON in a PostgreSQL jsonb column
type JSONB []byte

// Value implements driver.Valuer
func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner
func (j *JSONB) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// GormDataType tells GORM which column type to use
func (JSONB) GormDataType() string {
	return "jsonb"
}

// MarshalJSON returns j as the JSON encoding of j
func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON stores data in j
func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("jsonb: unmarshal into nil pointer")
	}
	*j = append((*j)[:0], data...)
	return nil
}
