// Package measure 提供 layout.TextMeasurer 的字体测宽实现。
//
// Shaper 通过 HarfBuzz 整形得到精确的前进宽度（含字距与连字），
// Opentype 直接累加字形度量，速度更快。两者都按字号（px）缩放，可以在多个 goroutine 中共享。
package measure
