package template

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ByLCY/pricetag/dsl"
	"github.com/ByLCY/pricetag/layout"
)

func eachAssignment(b *dsl.Block, fn func(key string, v *dsl.Value) error) error {
	if b == nil {
		return nil
	}
	for _, st := range b.Statements {
		if st.Assignment == nil {
			return fmt.Errorf("此处只接受 key: value 形式的赋值")
		}
		if err := fn(string(st.Assignment.Key), st.Assignment.Value); err != nil {
			return err
		}
	}
	return nil
}

// valueText 把标量值转为文本；裸标识符（如 right）以表达式形式出现，按原文拼接。
func valueText(v *dsl.Value) (string, bool) {
	switch {
	case v == nil:
		return "", false
	case v.String != nil:
		return string(*v.String), true
	case v.Number != nil:
		return *v.Number, true
	case v.Color != nil:
		return *v.Color, true
	case v.Expr != nil:
		parts := make([]string, 0, len(v.Expr.Parts))
		for _, p := range v.Expr.Parts {
			parts = append(parts, p.Value)
		}
		return strings.Join(parts, ""), true
	default:
		return "", false
	}
}

func valueList(v *dsl.Value) []string {
	if v != nil && v.Array != nil {
		out := make([]string, 0, len(v.Array.Values))
		for _, item := range v.Array.Values {
			if text, ok := valueText(item); ok {
				out = append(out, text)
			}
		}
		return out
	}
	if text, ok := valueText(v); ok {
		return []string{text}
	}
	return nil
}

func blockFields(b *dsl.Block) (layout.Fields, error) {
	var fields layout.Fields
	err := eachAssignment(b, func(key string, v *dsl.Value) error {
		text, ok := valueText(v)
		if !ok {
			return fmt.Errorf("%s 的值无效", key)
		}
		fields = fields.Set(key, text)
		return nil
	})
	return fields, err
}

func isLength(s string) bool {
	l := layout.ParseRawLengthStr(s)
	return l.Value != 0 || strings.HasPrefix(strings.TrimSpace(s), "0")
}

// lengthMM 解析长度，裸数字按 mm 处理。
func lengthMM(s string) (float64, error) {
	if !isLength(s) {
		return 0, fmt.Errorf("无效的长度：%s", s)
	}
	l := layout.ParseRawLengthStr(s)
	if l.Unit == layout.UnitNone {
		return l.Value, nil
	}
	return l.ToMM(), nil
}

// fontPx 解析字号，裸数字按 px 处理。
func fontPx(s string) (float64, error) {
	if !isLength(s) {
		return 0, fmt.Errorf("无效的字号：%s", s)
	}
	l := layout.ParseRawLengthStr(s)
	if l.Unit == layout.UnitNone {
		return l.Value, nil
	}
	return l.ToPX(), nil
}

func numbers(args []*dsl.Lexeme) ([]float64, error) {
	out := make([]float64, 0, len(args))
	for _, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSuffix(a.Value, "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("无效的数值：%s", a.Value)
		}
		out = append(out, f)
	}
	return out, nil
}

func parseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return nil, fmt.Errorf("无效的颜色：%s", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("无效的颜色：%s", s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
