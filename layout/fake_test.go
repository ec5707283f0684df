package layout

import "unicode/utf8"

// fixedMeasurer 是确定性的测宽实现：ASCII 字符占半个字号，其余（中日韩等）占一个字号。
type fixedMeasurer struct{}

func (fixedMeasurer) MeasureWidth(text string, _ string, fontSize float64) float64 {
	w := 0.0
	for _, r := range text {
		if r < utf8.RuneSelf {
			w += fontSize * 0.5
		} else {
			w += fontSize
		}
	}
	return w
}

// charMeasure 返回每个字符固定宽度的测宽函数，供折行测试使用。
func charMeasure(perChar float64) func(string) float64 {
	return func(s string) float64 { return float64(utf8.RuneCountInString(s)) * perChar }
}

func near(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
