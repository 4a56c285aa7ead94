// File: /models/types.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Location is the structured pickup address of a post, stored as a JSON column.
// Coordinates live in their own columns on the post so they can be queried.
type Location struct {
	Address string `json:"address"`
}

// Text returns the address line shown on cards
func (l Location) Text() string {
	if l.Address == "" {
		return "Location not specified"
	}
	return l.Address
}

// Value implements driver.Valuer interface for database storage
func (l Location) Value() (driver.Value, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for database retrieval. Older rows
// hold a bare address string instead of an object.
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Location", value)
	}

	if len(raw) > 0 && raw[0] == '"' {
		var address string
		if err := json.Unmarshal(raw, &address); err != nil {
			return err
		}
		*l = Location{Address: address}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// GormDataType returns the data type for GORM
func (Location) GormDataType() string {
	return "json"
}
