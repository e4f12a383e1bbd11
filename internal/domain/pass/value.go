package pass

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var errEmptyFieldValue = errors.New("field value must be a number or a string")

// FieldValue is the value of a pass field: either a number or a string.
// The zero value holds neither and encodes as null.
type FieldValue struct {
	number *float64
	text   *string
}

// Number returns a numeric FieldValue.
func Number(v float64) FieldValue {
	return FieldValue{number: &v}
}

// Text returns a string FieldValue.
func Text(v string) FieldValue {
	return FieldValue{text: &v}
}

// IsNumber reports whether the value holds a number.
func (v FieldValue) IsNumber() bool {
	return v.number != nil
}

// Float returns the numeric value and whether there is one.
func (v FieldValue) Float() (float64, bool) {
	if v.number == nil {
		return 0, false
	}

	return *v.number, true
}

// String returns the value formatted for display.
func (v FieldValue) String() string {
	switch {
	case v.number != nil:
		return strconv.FormatFloat(*v.number, 'f', -1, 64)
	case v.text != nil:
		return *v.text
	default:
		return ""
	}
}

// MarshalJSON implements json.Marshaler.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.number != nil:
		return json.Marshal(*v.number)
	case v.text != nil:
		return encodeJSON(*v.text, "")
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		return errEmptyFieldValue
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*v = Text(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("%w: %s", errEmptyFieldValue, data)
		}

		*v = Number(f)
	}

	return nil
}
