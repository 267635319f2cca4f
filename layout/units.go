package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths used by the DSL; layout itself works in whole pixels.

// Unit represents the original unit of a length value as specified in DSL.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, read as pixels
	UnitPX               // pixels
	UnitPT               // points
	UnitMM               // millimeters
	UnitIN               // inches
)

// DefaultDPI is the screen resolution used when none is configured.
const DefaultDPI = 96.0

var unitSuffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"in", UnitIN}}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Pixels converts the length to pixels at the given resolution.
func (l Length) Pixels(dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	switch l.Unit {
	case UnitPT:
		return l.Value * dpi / 72
	case UnitMM:
		return l.Value * dpi / 25.4
	case UnitIN:
		return l.Value * dpi
	default:
		return l.Value
	}
}

// PixelsInt rounds Pixels to the nearest whole pixel.
func (l Length) PixelsInt(dpi float64) int {
	px := l.Pixels(dpi)
	if px < 0 {
		return int(px - 0.5)
	}
	return int(px + 0.5)
}

// ParseRawLengthStr parses a DSL length string preserving its unit.
func ParseRawLengthStr(value string) Length {
	v := strings.TrimSpace(value)
	if v == "" {
		return Length{Value: 0, Unit: UnitNone}
	}
	lower := strings.ToLower(v)
	unit := UnitNone
	num := lower
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{Value: 0, Unit: UnitNone}
	}
	return Length{Value: f, Unit: unit}
}
