package layout

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// 该文件定义价签布局的输入与输出模型，供布局计算、渲染与调试 JSON 共用。
// 除 LabelDimensions 使用毫米外，所有坐标、尺寸与字号均为像素（96 DPI）。

const (
	defaultPaddingMM  = 2.0
	defaultSpacingMM  = 1.0
	defaultMinFont    = 8.0
	defaultMaxFont    = 24.0
	defaultLineHeight = 1.2
	defaultMaxLines   = 3
	defaultFontStep   = 1.0
	defaultFontFamily = "sans-serif"
)

// LabelDimensions 描述一张价签的物理尺寸（mm）。
type LabelDimensions struct {
	WidthMM  float64 `json:"widthMm"`
	HeightMM float64 `json:"heightMm"`
}

// Valid 判断尺寸是否严格为正。
func (d LabelDimensions) Valid() bool { return d.WidthMM > 0 && d.HeightMM > 0 }

// PixelSize 返回价签在引擎像素空间中的宽高。
func (d LabelDimensions) PixelSize() (float64, float64) {
	return MMToPx(d.WidthMM), MMToPx(d.HeightMM)
}

// LayoutConfig 由模板或主题提供，零值字段在布局前被默认值填充。
type LayoutConfig struct {
	PaddingMM            float64 `json:"paddingMm"`
	ElementSpacingMM     float64 `json:"elementSpacingMm"`
	MinFontSize          float64 `json:"minFontSize"`
	MaxFontSize          float64 `json:"maxFontSize"`
	LineHeightMultiplier float64 `json:"lineHeightMultiplier"`
	MaxLines             int     `json:"maxLines"`
	// FontStep 为字号搜索的步长；整数步长与 0.5 步长都可以，默认 1。
	FontStep   float64 `json:"fontStep"`
	FontFamily string  `json:"fontFamily"`
}

// DefaultConfig 返回引擎级默认配置。
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		PaddingMM:            defaultPaddingMM,
		ElementSpacingMM:     defaultSpacingMM,
		MinFontSize:          defaultMinFont,
		MaxFontSize:          defaultMaxFont,
		LineHeightMultiplier: defaultLineHeight,
		MaxLines:             defaultMaxLines,
		FontStep:             defaultFontStep,
		FontFamily:           defaultFontFamily,
	}
}

// normalized 用默认值补齐缺省字段，并修正 min > max 的配置。
func (c LayoutConfig) normalized() LayoutConfig {
	d := DefaultConfig()
	if c.PaddingMM < 0 {
		c.PaddingMM = 0
	}
	if c.ElementSpacingMM < 0 {
		c.ElementSpacingMM = 0
	}
	if c.MinFontSize <= 0 {
		c.MinFontSize = d.MinFontSize
	}
	if c.MaxFontSize <= 0 {
		c.MaxFontSize = d.MaxFontSize
	}
	if c.MinFontSize > c.MaxFontSize {
		c.MinFontSize, c.MaxFontSize = c.MaxFontSize, c.MinFontSize
	}
	if c.LineHeightMultiplier <= 0 {
		c.LineHeightMultiplier = d.LineHeightMultiplier
	}
	if c.MaxLines <= 0 {
		c.MaxLines = d.MaxLines
	}
	if c.FontStep <= 0 {
		c.FontStep = d.FontStep
	}
	if strings.TrimSpace(c.FontFamily) == "" {
		c.FontFamily = d.FontFamily
	}
	return c
}

// ElementType 是内容元素的种类标签。
type ElementType int

const (
	ElementName ElementType = iota
	ElementPrice
	ElementBrand
	ElementSellingPoint
	ElementSpec
	ElementCustomField
)

func (t ElementType) String() string {
	switch t {
	case ElementName:
		return "name"
	case ElementPrice:
		return "price"
	case ElementBrand:
		return "brand"
	case ElementSellingPoint:
		return "selling_point"
	case ElementSpec:
		return "spec"
	case ElementCustomField:
		return "custom"
	default:
		return "unknown"
	}
}

// ElementKind 是元素身份的标签联合：Index 仅对卖点有效，Key 仅对规格与自定义字段有效。
// 对外仍使用字符串 id（见 ID），以兼容已持久化的布局。
type ElementKind struct {
	Type  ElementType `json:"type"`
	Index int         `json:"index,omitempty"`
	Key   string      `json:"key,omitempty"`
}

func NameKind() ElementKind                  { return ElementKind{Type: ElementName} }
func PriceKind() ElementKind                 { return ElementKind{Type: ElementPrice} }
func BrandKind() ElementKind                 { return ElementKind{Type: ElementBrand} }
func SellingPointKind(i int) ElementKind     { return ElementKind{Type: ElementSellingPoint, Index: i} }
func SpecKind(key string) ElementKind        { return ElementKind{Type: ElementSpec, Key: key} }
func CustomFieldKind(key string) ElementKind { return ElementKind{Type: ElementCustomField, Key: key} }

const (
	idName        = "product_name"
	idPrice       = "product_price"
	idBrand       = "brand"
	prefixSelling = "selling_point_"
	prefixSpec    = "spec_"
	prefixCustom  = "custom_"
)

// ID 返回稳定的外部 id，例如 selling_point_2、spec_color。
func (k ElementKind) ID() string {
	switch k.Type {
	case ElementName:
		return idName
	case ElementPrice:
		return idPrice
	case ElementBrand:
		return idBrand
	case ElementSellingPoint:
		return prefixSelling + strconv.Itoa(k.Index)
	case ElementSpec:
		return prefixSpec + NormalizeKey(k.Key)
	case ElementCustomField:
		return prefixCustom + NormalizeKey(k.Key)
	default:
		return ""
	}
}

// IsPrice 判断是否为价格元素。
func (k ElementKind) IsPrice() bool { return k.Type == ElementPrice }

// ParseElementID 把持久化的字符串 id 还原为 ElementKind。
// 规格与自定义字段只能还原归一化后的 key。
func ParseElementID(id string) (ElementKind, error) {
	switch {
	case id == idName:
		return NameKind(), nil
	case id == idPrice:
		return PriceKind(), nil
	case id == idBrand:
		return BrandKind(), nil
	case strings.HasPrefix(id, prefixSelling):
		i, err := strconv.Atoi(strings.TrimPrefix(id, prefixSelling))
		if err != nil || i < 0 {
			return ElementKind{}, fmt.Errorf("卖点 id %q 的序号无效", id)
		}
		return SellingPointKind(i), nil
	case strings.HasPrefix(id, prefixSpec) && len(id) > len(prefixSpec):
		return SpecKind(strings.TrimPrefix(id, prefixSpec)), nil
	case strings.HasPrefix(id, prefixCustom) && len(id) > len(prefixCustom):
		return CustomFieldKind(strings.TrimPrefix(id, prefixCustom)), nil
	default:
		return ElementKind{}, fmt.Errorf("无法识别的元素 id：%q", id)
	}
}

// NormalizeKey 将 key 转为小写，并把每个空白字符替换为下划线，连续空白不合并。
// 首尾空白先去掉。
func NormalizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.ToLower(strings.TrimSpace(key)))
}

// ContentElement 是待布局的一段文本内容。
type ContentElement struct {
	ID       string      `json:"id"`
	Kind     ElementKind `json:"kind"`
	Priority float64     `json:"priority"`
	Weight   float64     `json:"weight"`
	Text     string      `json:"text"`
}

// Align 表示元素的水平对齐方式。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// ParseAlign 支持 start/end 别名，无法识别时返回 left。
func ParseAlign(v string) Align {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "center", "middle":
		return AlignCenter
	case "right", "end":
		return AlignRight
	default:
		return AlignLeft
	}
}

func (a Align) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

func (a *Align) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ParseAlign(s)
	return nil
}

// PlacedElement 是布局输出中一个已确定坐标、字号与折行的元素。
type PlacedElement struct {
	ID          string  `json:"id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	FontSize    float64 `json:"fontSize"`
	Lines       uint8   `json:"lines"`
	WrappedText string  `json:"wrappedText"`
	Align       Align   `json:"align"`
	// Allocated 记录分配阶段给出的高度预算，实际高度可能超出。
	Allocated float64 `json:"allocated"`
}

// Bottom 返回元素下边缘的 y 坐标。
func (p PlacedElement) Bottom() float64 { return p.Y + p.Height }

// LayoutResult 是单张价签的布局结果。
type LayoutResult struct {
	Elements       []PlacedElement `json:"elements"`
	CanvasWidthPx  float64         `json:"canvasWidthPx"`
	CanvasHeightPx float64         `json:"canvasHeightPx"`
	FontFamily     string          `json:"fontFamily,omitempty"`
	// Overflow 表示最底部元素越过了价签的可用区域，调用方应提示或裁剪。
	Overflow   bool    `json:"overflow,omitempty"`
	OverflowPx float64 `json:"overflowPx,omitempty"`
}

// Empty 判断结果是否为空布局（退化输入）。
func (r *LayoutResult) Empty() bool { return r == nil || len(r.Elements) == 0 }

// UsedHeight 返回最后一个元素的下边缘。
func (r *LayoutResult) UsedHeight() float64 {
	if r.Empty() {
		return 0
	}
	return r.Elements[len(r.Elements)-1].Bottom()
}

// Element 按 id 查找元素。
func (r *LayoutResult) Element(id string) (PlacedElement, bool) {
	if r == nil {
		return PlacedElement{}, false
	}
	for _, el := range r.Elements {
		if el.ID == id {
			return el, true
		}
	}
	return PlacedElement{}, false
}
