package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe types and helpers for physical lengths and line-height.
// The engine itself works in CSS pixels (96 DPI); templates speak millimetres.

// Unit represents the original unit of a length value as written in a template.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
	UnitPX               // CSS pixels at 96 DPI
)

// Conversion constants. MmToPx must stay exactly 3.7795275591: persisted
// percentage layouts were produced against it.
const (
	MmToPx = 3.7795275591
	PxToMm = 1.0 / MmToPx
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToPt = 0.75
)

// MMToPx converts millimetres to engine pixels.
func MMToPx(mm float64) float64 { return mm * MmToPx }

// PxToMM converts engine pixels to millimetres.
func PxToMM(px float64) float64 { return px / MmToPx }

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// mm returns the length in millimetres; unit-less values are taken as mm.
func (l Length) mm() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX:
		return l.Value * PxToMm
	default:
		return l.Value
	}
}

// To converts this length to the target unit.
func (l Length) To(target Unit) float64 {
	if l.Unit == target {
		return l.Value
	}
	mm := l.mm()
	switch target {
	case UnitCM:
		return mm / 10
	case UnitIN:
		return mm / 25.4
	case UnitPT:
		return mm * MmToPt
	case UnitPX:
		return mm * MmToPx
	default:
		return mm
	}
}

func (l Length) ToMM() float64 { return l.To(UnitMM) }
func (l Length) ToPX() float64 { return l.To(UnitPX) }

// ParseRawLengthStr parses a template length string preserving its unit.
// A bare number keeps UnitNone so callers can pick their own default.
func ParseRawLengthStr(value string) Length {
	v := strings.TrimSpace(value)
	if v == "" {
		return Length{Value: 0, Unit: UnitNone}
	}
	lower := strings.ToLower(v)
	unit := UnitNone
	num := lower
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}} {
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

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec preserves original author intent: either a factor (e.g., 1.2x) or an absolute length (e.g., 18px).
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight reads "1.2x", "1.2" or an absolute length such as "14px".
func ParseLineHeight(value string) (LineHeightSpec, bool) {
	v := strings.TrimSpace(strings.ToLower(value))
	if v == "" {
		return LineHeightSpec{}, false
	}
	// "px" 同样以 x 结尾，属于绝对长度。
	if strings.HasSuffix(v, "x") && !strings.HasSuffix(v, "px") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64)
		if err != nil || f <= 0 {
			return LineHeightSpec{}, false
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: f}, true
	}
	l := ParseRawLengthStr(v)
	if l.Value <= 0 {
		return LineHeightSpec{}, false
	}
	if l.Unit == UnitNone {
		return LineHeightSpec{Kind: LineHeightFactor, Factor: l.Value}, true
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, true
}

// Multiplier expresses the spec as a factor of fontSizePx, which is what
// LayoutConfig.LineHeightMultiplier stores.
func (s LineHeightSpec) Multiplier(fontSizePx float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return s.Factor
	case LineHeightAbsolute:
		if fontSizePx <= 0 {
			return defaultLineHeight
		}
		return s.Len.ToPX() / fontSizePx
	default:
		return defaultLineHeight
	}
}
