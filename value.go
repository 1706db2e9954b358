// value.go: runtime values.
package paanini

import (
	"fmt"
	"strconv"
)

// ValueTag discriminates the runtime value variants.
type ValueTag int

const (
	VTNull ValueTag = iota
	VTNumber
	VTString
	VTBool
	VTRange
)

// Value is the runtime representation of every Paanini value. The zero value
// is Null. Range values exist only transiently while a परिभ्रमण loop header
// is evaluated; the grammar keeps them out of every other position.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Null is the absence of a value; it is also what every function call yields.
var Null = Value{Tag: VTNull}

// Number wraps a float64.
func Number(f float64) Value { return Value{Tag: VTNumber, Data: f} }

// Str wraps a string.
func Str(s string) Value { return Value{Tag: VTString, Data: s} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Tag: VTBool, Data: b} }

// NewRange wraps an iteration bound; iteration runs 0..n-1.
func NewRange(n int) Value { return Value{Tag: VTRange, Data: n} }

// Kind names the value's type in diagnostics.
func (v Value) Kind() string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTNumber:
		return "number"
	case VTString:
		return "string"
	case VTBool:
		return "boolean"
	case VTRange:
		return "range"
	}
	return "unknown"
}

// Text returns the canonical textual form used by दर्श and by string
// concatenation: numbers drop the decimal part when integral, booleans
// render as सत्य/असत्य, null renders as "null".
func (v Value) Text() string {
	switch v.Tag {
	case VTNull:
		return "null"
	case VTNumber:
		return formatNumber(v.Data.(float64))
	case VTString:
		return v.Data.(string)
	case VTBool:
		if v.Data.(bool) {
			return "सत्य"
		}
		return "असत्य"
	case VTRange:
		return fmt.Sprintf("परिधि(%d)", v.Data.(int))
	}
	return ""
}

// String is the debug form: like Text, but strings are quoted.
func (v Value) String() string {
	if v.Tag == VTString {
		return strconv.Quote(v.Data.(string))
	}
	return v.Text()
}

// formatNumber renders a float the shortest way that round-trips, without an
// exponent: 5 → "5", 0.5 → "0.5".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
