package layout

import "math"

// FittedElement 是已经完成字号搜索、等待定位的元素。
type FittedElement struct {
	Element   ContentElement
	Fit       FitResult
	Allocated float64
}

// Place 自上而下堆叠元素：每个元素占满可用宽度，高度取折行后的实际高度而不是分配值，
// 因此前一个元素溢出时后面的元素整体下移，而不会重叠。
func Place(fitted []FittedElement, cfg LayoutConfig, availableWidth, paddingPx, spacingPx float64, aligns map[string]Align) []PlacedElement {
	cfg = cfg.normalized()
	out := make([]PlacedElement, 0, len(fitted))
	currentY := paddingPx
	for _, f := range fitted {
		height := textHeight(f.Fit.FontSize, cfg.LineHeightMultiplier, f.Fit.Wrap.Count())
		align := AlignLeft
		if f.Element.Kind.IsPrice() {
			align = AlignCenter
		}
		if a, ok := aligns[f.Element.ID]; ok {
			align = a
		}
		out = append(out, PlacedElement{
			ID:          f.Element.ID,
			X:           paddingPx,
			Y:           currentY,
			Width:       availableWidth,
			Height:      height,
			FontSize:    f.Fit.FontSize,
			Lines:       uint8(math.Min(float64(f.Fit.Wrap.Count()), math.MaxUint8)),
			WrappedText: f.Fit.Wrap.Text(),
			Align:       align,
			Allocated:   f.Allocated,
		})
		currentY += height + spacingPx
	}
	return out
}
