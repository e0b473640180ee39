package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a float64 that may be undefined. The zero Value is undefined.
type Value struct {
	Float float64
	Valid bool
}

// Defined wraps f as a defined Value.
func Defined(f float64) Value {
	return Value{Float: f, Valid: true}
}

// Undefined returns the undefined Value.
func Undefined() Value {
	return Value{}
}

// OrZero returns the value, or 0 when undefined.
func (v Value) OrZero() float64 {
	if !v.Valid {
		return 0
	}
	return v.Float
}

// Sub returns v - w, undefined if either operand is undefined.
func (v Value) Sub(w Value) Value {
	if !v.Valid || !w.Valid {
		return Undefined()
	}
	return Defined(v.Float - w.Float)
}

// Scale returns v * k, undefined if v is undefined.
func (v Value) Scale(k float64) Value {
	if !v.Valid {
		return v
	}
	return Defined(v.Float * k)
}

// Div returns v / w. The result is undefined if either operand is undefined
// or w is zero.
func Div(v, w Value) Value {
	if !v.Valid || !w.Valid || w.Float == 0 {
		return Undefined()
	}
	return Defined(v.Float / w.Float)
}

// SumZeroSubstituting adds values treating undefined as 0. The result is
// always defined.
func SumZeroSubstituting(values ...Value) float64 {
	var sum float64
	for _, v := range values {
		sum += v.OrZero()
	}
	return sum
}

// MarshalJSON encodes an undefined Value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

// ParseValue parses a spreadsheet cell. Empty and non-numeric cells are
// undefined.
func ParseValue(cell string) Value {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Undefined()
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Undefined()
	}
	return Defined(f)
}
