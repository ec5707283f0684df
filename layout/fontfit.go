package layout

import (
	"math"
	"unicode/utf8"
)

const (
	priceStartFactor = 1.2
	priceMinFactor   = 1.5
	fitEpsilon       = 1e-9
)

// FitResult 记录一个元素的字号搜索结果。
type FitResult struct {
	FontSize float64
	Wrap     WrapResult
	// Width 为最宽一行的测量宽度，Height = 字号 × 行高系数 × 行数。
	Width  float64
	Height float64
	// Exhausted 表示区间内没有字号同时满足宽高约束，已退回最小字号。
	Exhausted bool
	// Estimated 表示没有测宽后端，宽度与折行均为按字符数估算。
	Estimated bool
}

// FitRequest 描述一次字号搜索的输入。
type FitRequest struct {
	Text     string
	Width    float64
	Height   float64
	IsPrice  bool
	Config   LayoutConfig
	Measurer TextMeasurer
}

// ResolveFontSize 从最大字号开始按固定步长递减，返回第一个宽高都放得下的字号。
// 价格从 max×1.2 开始，下限为 min×1.5。都放不下时退回下限字号，结果可能超出分配高度。
func ResolveFontSize(req FitRequest) FitResult {
	cfg := req.Config.normalized()
	start, floor := fontRange(cfg, req.IsPrice)

	steps := int(math.Floor((start-floor)/cfg.FontStep + fitEpsilon))
	for i := 0; i <= steps; i++ {
		size := start - float64(i)*cfg.FontStep
		fit := fitAt(req, cfg, size)
		if fit.Height <= req.Height+fitEpsilon && fit.Width <= req.Width+fitEpsilon {
			return fit
		}
	}
	fit := fitAt(req, cfg, floor)
	fit.Exhausted = true
	return fit
}

// fontRange 返回 (起始字号, 最小字号)。
func fontRange(cfg LayoutConfig, price bool) (float64, float64) {
	start, floor := cfg.MaxFontSize, cfg.MinFontSize
	if price {
		start *= priceStartFactor
		floor *= priceMinFactor
		if floor > start {
			floor = start
		}
	}
	return start, floor
}

func fitAt(req FitRequest, cfg LayoutConfig, size float64) FitResult {
	var (
		wrap      WrapResult
		widest    float64
		estimated bool
	)
	if req.Measurer == nil {
		estimated = true
		perLine := int(math.Floor(req.Width / (size * estimateCharWidth)))
		wrap = wrapByCount(req.Text, perLine, cfg.MaxLines)
		for _, ln := range wrap.Lines {
			widest = math.Max(widest, estimateWidth(ln, size))
		}
	} else {
		measure := func(s string) float64 { return req.Measurer.MeasureWidth(s, cfg.FontFamily, size) }
		wrap = wrapMeasured(req.Text, req.Width, cfg.MaxLines, measure)
		for _, ln := range wrap.Lines {
			widest = math.Max(widest, measure(ln))
		}
	}
	return FitResult{
		FontSize:  size,
		Wrap:      wrap,
		Width:     widest,
		Height:    textHeight(size, cfg.LineHeightMultiplier, wrap.Count()),
		Estimated: estimated,
	}
}

// estimateWidth 在没有测宽后端时按字符数估算宽度。
func estimateWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * estimateCharWidth
}

func textHeight(size, lineHeight float64, lines int) float64 {
	return size * lineHeight * float64(lines)
}
