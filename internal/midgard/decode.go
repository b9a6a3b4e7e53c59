package midgard

import (
	"bytes"
	"strconv"
)

// Midgard serves most numeric fields as decimal strings, but some arrive as
// bare JSON numbers and sparse windows omit fields entirely. FlexInt and
// FlexFloat absorb all three shapes: string first, then literal, and zero
// for anything absent or unparseable. The zero default is deliberate, not
// an error.

// FlexInt is an int64 decoded tolerantly from a JSON string or number.
type FlexInt int64

// FlexFloat is a float64 decoded tolerantly from a JSON string or number.
type FlexFloat float64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(decodeInt(data))
	return nil
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat(decodeFloat(data))
	return nil
}

func decodeInt(data []byte) int64 {
	data = unquote(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	if v, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		return v
	}
	// Numeric literals may carry a fractional part even for count fields.
	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		return int64(v)
	}
	return 0
}

func decodeFloat(data []byte) float64 {
	data = unquote(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 0
	}
	return v
}

func unquote(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		return data[1 : len(data)-1]
	}
	return data
}
