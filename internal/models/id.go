package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a remote identifier. The remote service has returned both numeric and
// string ids over time; ID accepts either and always compares as a string.
type ID string

// UnmarshalJSON accepts "12", 12 and null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id == "" }

// IDFromInt formats a numeric id.
func IDFromInt(n int64) ID { return ID(strconv.FormatInt(n, 10)) }
