package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSON type for flexible storage
type JSON map[string]interface{}

// ToJSON converts any JSON-encodable value into a JSON map.
func ToJSON(v interface{}) (JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal json column: %w", err)
	}
	var out JSON
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("json column must be an object: %w", err)
	}
	return out, nil
}

// Value implements the driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	raw, err := json.Marshal(map[string]interface{}(j))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements the sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported json column type")
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*j = m
	return nil
}
