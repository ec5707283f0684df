package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/pricetag/fonts"
	"github.com/ByLCY/pricetag/layout"
	"github.com/ByLCY/pricetag/renderer"
	"github.com/ByLCY/pricetag/sheet"
)

const (
	borderWidth  = 0.2
	cutMarkWidth = 0.1
)

// Renderer draws layout results via github.com/tdewolff/canvas.
// 它同时实现 layout.TextMeasurer，排版与输出使用同一套字体度量。
type Renderer struct {
	opts Options

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ layout.TextMeasurer = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// BaseDir 用于解析相对路径的字体文件。
	BaseDir string
	// Fonts 按字体族名注册字体，未注册的字体族回退到 DefaultFont。
	Fonts map[string]Resource
	// DefaultFont 为 fonts.Load 可识别的来源，默认 builtin:go-regular。
	DefaultFont string
	TextColor   color.Color
	// Border 为单张价签画外框；整张纸总是画裁切线。
	Border      bool
	BorderColor color.Color
	Title       string
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer with the default font.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected fonts and colors.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.DefaultFont == "" {
		opts.DefaultFont = fonts.Default
	}
	if opts.TextColor == nil {
		opts.TextColor = canvas.RGBA(30.0/255, 30.0/255, 30.0/255, 1)
	}
	if opts.BorderColor == nil {
		opts.BorderColor = canvas.RGBA(0.6, 0.6, 0.6, 1)
	}
	return &Renderer{
		opts:         opts,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// MeasureWidth 实现 layout.TextMeasurer：字号与返回值均为 px，内部与字体系统交互使用 pt/mm。
func (r *Renderer) MeasureWidth(text string, fontFamily string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	face, err := r.fontFace(fontFamily, fontSize, r.opts.TextColor)
	if err != nil {
		return 0
	}
	return layout.MMToPx(face.TextWidth(text))
}

// RenderLabel renders a single label into a PDF byte slice.
func (r *Renderer) RenderLabel(result *layout.LayoutResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	if result.CanvasWidthPx <= 0 || result.CanvasHeightPx <= 0 {
		return nil, fmt.Errorf("价签尺寸无效")
	}
	w, h := layout.PxToMM(result.CanvasWidthPx), layout.PxToMM(result.CanvasHeightPx)
	return r.renderPage(w, h, func(ctx *canvas.Context) error {
		if r.opts.Border {
			r.drawFrame(ctx, 0, 0, w, h, borderWidth)
		}
		return r.drawLabel(ctx, 0, 0, result)
	})
}

// RenderSheet renders all placed labels of a packed sheet into one PDF page.
func (r *Renderer) RenderSheet(result *sheet.PackResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	c := result.Canvas
	if c.WidthMM <= 0 || c.HeightMM <= 0 {
		return nil, fmt.Errorf("纸张尺寸无效")
	}
	return r.renderPage(c.WidthMM, c.HeightMM, func(ctx *canvas.Context) error {
		for _, p := range result.Placed {
			r.drawFrame(ctx, p.PositionMM.X, p.PositionMM.Y, p.LabelSizeMM.WidthMM, p.LabelSizeMM.HeightMM, cutMarkWidth)
			if p.LabelLayout == nil {
				continue
			}
			if err := r.drawLabel(ctx, p.PositionMM.X, p.PositionMM.Y, p.LabelLayout); err != nil {
				return fmt.Errorf("绘制第 %d 张价签失败: %w", p.Index, err)
			}
		}
		return nil
	})
}

func (r *Renderer) renderPage(widthMM, heightMM float64, draw func(ctx *canvas.Context) error) ([]byte, error) {
	var buf bytes.Buffer
	writer := pdf.New(&buf, widthMM, heightMM, nil)
	writer.SetInfo(r.opts.Title, "", "", "", "pricetag")

	c := canvas.New(widthMM, heightMM)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	if err := draw(ctx); err != nil {
		return nil, err
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLabel 在 (offsetX, offsetY)（mm）处绘制一张价签的全部元素。布局坐标为 px，这里统一换算为 mm。
func (r *Renderer) drawLabel(ctx *canvas.Context, offsetX, offsetY float64, res *layout.LayoutResult) error {
	for _, el := range res.Elements {
		if el.WrappedText == "" || el.Lines == 0 {
			continue
		}
		face, err := r.fontFace(res.FontFamily, el.FontSize, r.opts.TextColor)
		if err != nil {
			return err
		}

		x := offsetX + layout.PxToMM(el.X)
		width := layout.PxToMM(el.Width)
		var textAlign canvas.TextAlign
		var anchorX float64
		switch el.Align {
		case layout.AlignCenter:
			textAlign = canvas.Center
			anchorX = x + width/2
		case layout.AlignRight:
			textAlign = canvas.Right
			anchorX = x + width
		default:
			textAlign = canvas.Left
			anchorX = x
		}

		// 行距 = 元素高度 / 行数，即 字号 × 行高系数
		pitch := layout.PxToMM(el.Height) / float64(el.Lines)
		metrics := face.Metrics()
		// 行内留白上下平分，基线 = 行顶 + 留白/2 + 上升部
		halfLeading := (pitch - metrics.Ascent - metrics.Descent) / 2
		if halfLeading < 0 {
			halfLeading = 0
		}
		cursorY := offsetY + layout.PxToMM(el.Y)
		for _, line := range strings.Split(el.WrappedText, "\n") {
			if line != "" {
				ctx.DrawText(anchorX, cursorY+halfLeading+metrics.Ascent, canvas.NewTextLine(face, line, textAlign))
			}
			cursorY += pitch
		}
	}
	return nil
}

// drawFrame 绘制价签外框或裁切线（mm）。
func (r *Renderer) drawFrame(ctx *canvas.Context, x, y, w, h, strokeWidth float64) {
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(r.opts.BorderColor)
	ctx.SetStrokeWidth(strokeWidth)
	ctx.DrawPath(x, y, canvas.Rectangle(w, h))
}

// fontFace 按 px 字号返回字体面；canvas 的字号单位为 pt。
func (r *Renderer) fontFace(family string, sizePx float64, col color.Color) (*canvas.FontFace, error) {
	f, err := r.ensureFontFamily(family)
	if err != nil {
		return nil, err
	}
	return f.Face(sizePx*layout.PxToPt, col, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(name string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if f, ok := r.fontFamilies[name]; ok {
		return f, nil
	}
	res, ok := r.opts.Fonts[name]
	if !ok {
		return r.fallback()
	}
	family := canvas.NewFontFamily(name)
	data, err := r.loadResource(res)
	if err == nil {
		err = family.LoadFont(data, 0, canvas.FontRegular)
	}
	if err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
		}
		r.fontFamilies[name] = fallback
		return fallback, nil
	}
	r.fontFamilies[name] = family
	return family, nil
}

func (r *Renderer) loadResource(res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("字体资源为空")
	}
	if fonts.IsBuiltin(res.Path) {
		return fonts.Load(res.Path)
	}
	path := res.Path
	if !filepath.IsAbs(path) && r.opts.BaseDir != "" {
		path = filepath.Join(r.opts.BaseDir, path)
	}
	return os.ReadFile(path)
}

// fallback 调用方需持有 fontMu。
func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(r.opts.DefaultFont)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("pricetag-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载默认字体失败: %w", err)
	}
	r.fallbackFamily = family
	return family, nil
}
