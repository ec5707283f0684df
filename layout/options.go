package layout

import "github.com/flanksource/commons/logger"

// BuildOptions 配置布局阶段所需的依赖，例如测宽后端。
type BuildOptions struct {
	// Measurer 为空时退回按字符数估算的宽度（渲染器挂载前的预估模式）。
	Measurer TextMeasurer
	// Smart 可选，仅调整元素的 weight/priority，不改变分配算法。
	Smart *SmartPolicy
	// Positions 为用户拖拽后保存的百分比坐标，按元素 id 覆盖排版位置。
	Positions map[string]NormalizedPosition
	// AlignOverrides 按元素 id 覆盖默认对齐方式（价格居中，其余左对齐）。
	AlignOverrides map[string]Align
	Logger         logger.Logger
}

// TextMeasurer 返回文本在指定字体与字号（px）下的渲染宽度（px）。
// 这是引擎唯一依赖平台的接缝：原生排版库、浏览器 canvas 或字体度量表都可以实现它。
type TextMeasurer interface {
	MeasureWidth(text string, fontFamily string, fontSize float64) float64
}

// MeasureFunc 让普通函数满足 TextMeasurer。
type MeasureFunc func(text string, fontFamily string, fontSize float64) float64

func (f MeasureFunc) MeasureWidth(text string, fontFamily string, fontSize float64) float64 {
	return f(text, fontFamily, fontSize)
}

func (o BuildOptions) debugf(format string, args ...any) {
	if o.Logger != nil {
		o.Logger.Debugf(format, args...)
	}
}
