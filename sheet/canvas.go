package sheet

import (
	"fmt"
	"strings"

	"github.com/ByLCY/pricetag/layout"
)

// Orientation 决定价签在纸张上的排布方向。
type Orientation int

const (
	// Horizontal 按行排布：从左到右，一行放满后换行。
	Horizontal Orientation = iota
	// Vertical 按列排布：从上到下，一列放满后换列。
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation 解析 "horizontal"/"rows"/"vertical"/"columns"，未知值按行排布。
func ParseOrientation(v string) Orientation {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "vertical", "columns", "column":
		return Vertical
	default:
		return Horizontal
	}
}

// Margin 四边页边距，单位 mm。
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// UniformMargin 四边相同的页边距。
func UniformMargin(v float64) Margin {
	return Margin{Top: v, Right: v, Bottom: v, Left: v}
}

// MarginFromValues 按 CSS 的简写规则展开 1~4 个值：
// 1 个值四边相同；2 个值为 上下/左右；3 个值为 上/左右/下；4 个值为 上/右/下/左。
// 多余的值被忽略，没有值时返回 def。
func MarginFromValues(def Margin, vals ...float64) Margin {
	switch {
	case len(vals) == 0:
		return def
	case len(vals) == 1:
		return UniformMargin(vals[0])
	case len(vals) == 2:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
	case len(vals) == 3:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
	default:
		return Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
	}
}

// PageCanvas 是承载多张价签的纸张。
type PageCanvas struct {
	WidthMM     float64     `json:"widthMm"`
	HeightMM    float64     `json:"heightMm"`
	Margins     Margin      `json:"margins"`
	SpacingMM   float64     `json:"spacingMm"`
	Orientation Orientation `json:"orientation"`
}

// UsableSize 返回扣除页边距后的可用区域，可能为负。
func (c PageCanvas) UsableSize() (float64, float64) {
	return c.WidthMM - c.Margins.Left - c.Margins.Right, c.HeightMM - c.Margins.Top - c.Margins.Bottom
}

// DefaultMargin 是预设纸张的默认页边距。
const DefaultMargin = 5.0

// DefaultSpacing 是预设纸张的默认价签间距。
const DefaultSpacing = 2.0

var presets = map[string][2]float64{
	"A3":     {297, 420},
	"A4":     {210, 297},
	"A5":     {148, 210},
	"A6":     {105, 148},
	"LETTER": {215.9, 279.4},
	"LEGAL":  {215.9, 355.6},
}

// PresetNames 返回支持的纸张名称。
func PresetNames() []string {
	return []string{"A3", "A4", "A5", "A6", "Letter", "Legal"}
}

// Preset 返回预设纸张，landscape 时交换宽高。
func Preset(name string, landscape bool) (PageCanvas, error) {
	base, ok := presets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return PageCanvas{}, fmt.Errorf("暂不支持的纸张尺寸：%s", name)
	}
	w, h := base[0], base[1]
	if landscape {
		w, h = h, w
	}
	return PageCanvas{
		WidthMM:   w,
		HeightMM:  h,
		Margins:   UniformMargin(DefaultMargin),
		SpacingMM: DefaultSpacing,
	}, nil
}

// LabelInput 是一张待排布的价签：物理尺寸加上已经算好的布局。
type LabelInput struct {
	Size   layout.LabelDimensions
	Layout *layout.LayoutResult
}

// Point 纸张上的坐标，单位 mm，原点在左上角。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PlacedLabelInstance 是放到纸张上的一张价签。LabelLayout 原样来自调用方，打包器只计算 PositionMM。
type PlacedLabelInstance struct {
	Index       int                    `json:"index"`
	LabelLayout *layout.LayoutResult   `json:"labelLayout"`
	LabelSizeMM layout.LabelDimensions `json:"labelSizeMm"`
	PositionMM  Point                  `json:"positionMm"`
}

// Right 返回价签右边缘的 x 坐标。
func (p PlacedLabelInstance) Right() float64 { return p.PositionMM.X + p.LabelSizeMM.WidthMM }

// Bottom 返回价签下边缘的 y 坐标。
func (p PlacedLabelInstance) Bottom() float64 { return p.PositionMM.Y + p.LabelSizeMM.HeightMM }

// Overlaps 判断两张价签的包围盒是否相交（贴边不算）。
func (p PlacedLabelInstance) Overlaps(o PlacedLabelInstance) bool {
	return p.PositionMM.X < o.Right()-epsilon && o.PositionMM.X < p.Right()-epsilon &&
		p.PositionMM.Y < o.Bottom()-epsilon && o.PositionMM.Y < p.Bottom()-epsilon
}

// PackResult 是一次排布的结果。Dropped 记录放不下的价签在输入中的下标。
type PackResult struct {
	Canvas  PageCanvas            `json:"canvas"`
	Placed  []PlacedLabelInstance `json:"placed"`
	Dropped []int                 `json:"dropped"`
}
