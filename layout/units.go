package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for lengths given in configuration.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as mm
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM converts this length to millimeters. Unit-less values are taken as mm.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ParseLength parses strings such as "10mm", "1.5cm", "0.5in" or "12pt".
func ParseLength(value string) (Length, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}
