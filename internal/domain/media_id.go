package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MediaID is the opaque media identifier carried by upload and completion events.
// Producers send it either as a JSON string or as a JSON number; the original
// shape is kept so completion events echo it back the way it arrived.
type MediaID struct {
	value   string
	numeric bool
}

func NewMediaID(value string) MediaID {
	return MediaID{value: value}
}

func NewNumericMediaID(value int64) MediaID {
	return MediaID{value: strconv.FormatInt(value, 10), numeric: true}
}

func (id MediaID) String() string {
	return id.value
}

func (id MediaID) IsZero() bool {
	return id.value == ""
}

func (id MediaID) IsNumeric() bool {
	return id.numeric
}

func (id MediaID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *MediaID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = MediaID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("media id: %w", err)
		}
		*id = MediaID{value: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("media id must be a string or a number: %w", err)
	}
	*id = MediaID{value: n.String(), numeric: true}
	return nil
}
