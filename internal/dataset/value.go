package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the declared value kind of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number":
		return Numeric, nil
	case "categorical", "category", "string":
		return Categorical, nil
	default:
		return 0, fmt.Errorf("unknown column kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Value is a scalar cell value: either a number or a string.
// The zero Value is the empty string.
//
// Value is comparable, so it can key maps; two Values are == exactly when
// Equal reports true, except for NaN which is never equal to anything.
type Value struct {
	num   float64
	str   string
	isNum bool
}

// Number wraps a float as a numeric Value.
func Number(f float64) Value { return Value{num: f, isNum: true} }

// String wraps s as a string Value.
func String(s string) Value { return Value{str: s} }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.isNum }

// Float returns the numeric payload and whether v is numeric.
func (v Value) Float() (float64, bool) { return v.num, v.isNum }

// Text returns the string payload and whether v is a string.
func (v Value) Text() (string, bool) { return v.str, !v.isNum }

// Equal is strict value equality: a number never equals a string, no
// normalization or case folding is applied and NaN equals nothing.
func (v Value) Equal(o Value) bool {
	if v.isNum != o.isNum {
		return false
	}
	if v.isNum {
		return v.num == o.num
	}
	return v.str == o.str
}

func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.str
}

// MarshalJSON renders numbers as JSON numbers and strings as JSON strings.
// Non-finite numbers are rendered as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isNum {
		s := strconv.FormatFloat(v.num, 'g', -1, 64)
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return json.Marshal(s)
		}
		return []byte(s), nil
	}
	return json.Marshal(v.str)
}
