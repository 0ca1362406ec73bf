package models

import (
	"database/sql/driver"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// StringSlice is stored as a JSON array in a text column. SQLite has no
// native array type.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}

	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return string(b), nil
}

func (s *StringSlice) Scan(src interface{}) error {
	if src == nil {
		*s = StringSlice{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.Errorf("unsupported type %T for StringSlice", src)
	}

	if len(data) == 0 {
		*s = StringSlice{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return errors.WithStack(err)
	}

	*s = out

	return nil
}
