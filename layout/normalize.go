package layout

import "math"

// NormalizedPosition 以百分比表示元素位置，始终相对于换算时的价签像素尺寸。
// 价签尺寸变化后，调用方必须用新尺寸重新求像素坐标。
type NormalizedPosition struct {
	XPct float64 `json:"xPct"`
	YPct float64 `json:"yPct"`
}

// ToPercentage 把像素坐标换算为 [0,100] 内的百分比。
func ToPercentage(xPx, yPx, labelWidthPx, labelHeightPx float64) NormalizedPosition {
	return NormalizedPosition{
		XPct: percentOf(xPx, labelWidthPx),
		YPct: percentOf(yPx, labelHeightPx),
	}
}

// ToPixels 是 ToPercentage 的逆运算。
func ToPixels(pos NormalizedPosition, labelWidthPx, labelHeightPx float64) (float64, float64) {
	return pos.XPct / 100 * labelWidthPx, pos.YPct / 100 * labelHeightPx
}

func percentOf(v, extent float64) float64 {
	if extent <= 0 || math.IsNaN(v) {
		return 0
	}
	return clamp(v/extent*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// StoredPosition 是持久化的原始坐标：新数据为百分比，旧数据为像素。
type StoredPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecodeStoredCoordinate 是旧数据兼容垫片：落在 [0,100] 内的值视为百分比，
// 其余视为旧版像素值并换算为百分比。小于 100px 的旧像素值会被误判为百分比，
// 迁移旧数据时应尽早统一写回百分比格式。
func DecodeStoredCoordinate(v, extentPx float64) (pct float64, legacy bool) {
	if v >= 0 && v <= 100 {
		return v, false
	}
	return percentOf(v, extentPx), true
}

// DecodeStoredPosition 对 x、y 分别应用 DecodeStoredCoordinate。
func DecodeStoredPosition(sp StoredPosition, labelWidthPx, labelHeightPx float64) (NormalizedPosition, bool) {
	x, lx := DecodeStoredCoordinate(sp.X, labelWidthPx)
	y, ly := DecodeStoredCoordinate(sp.Y, labelHeightPx)
	return NormalizedPosition{XPct: x, YPct: y}, lx || ly
}

// ExtractPositions 把布局结果中的元素坐标换算为百分比，供持久化。
func ExtractPositions(res *LayoutResult) map[string]NormalizedPosition {
	out := map[string]NormalizedPosition{}
	if res.Empty() {
		return out
	}
	for _, el := range res.Elements {
		out[el.ID] = ToPercentage(el.X, el.Y, res.CanvasWidthPx, res.CanvasHeightPx)
	}
	return out
}

// ApplyPositions 用保存的百分比坐标覆盖元素位置，按结果当前的画布尺寸重新求像素坐标。
// 未出现在 positions 中的元素保持自动排版的位置。
func ApplyPositions(res *LayoutResult, positions map[string]NormalizedPosition) {
	if res.Empty() || len(positions) == 0 {
		return
	}
	for i := range res.Elements {
		pos, ok := positions[res.Elements[i].ID]
		if !ok {
			continue
		}
		x, y := ToPixels(pos, res.CanvasWidthPx, res.CanvasHeightPx)
		res.Elements[i].X = x
		res.Elements[i].Y = y
		if room := res.CanvasWidthPx - x; res.Elements[i].Width > room {
			res.Elements[i].Width = math.Max(room, 0)
		}
	}
}

// PixelPosition 是按某个价签尺寸求出的像素坐标。
type PixelPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rescale 按新的价签尺寸重新求出全部保存坐标的像素值。
func Rescale(positions map[string]NormalizedPosition, dims LabelDimensions) map[string]PixelPosition {
	out := make(map[string]PixelPosition, len(positions))
	if !dims.Valid() {
		return out
	}
	w, h := dims.PixelSize()
	for id, pos := range positions {
		x, y := ToPixels(pos, w, h)
		out[id] = PixelPosition{X: x, Y: y}
	}
	return out
}
