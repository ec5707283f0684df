// Package template 把模板 DSL 编译为价签尺寸、排版参数、商品数据与整纸设置。
package template

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ByLCY/pricetag/dsl"
	"github.com/ByLCY/pricetag/layout"
	"github.com/ByLCY/pricetag/sheet"
)

// Template 是编译后的价签模板。
type Template struct {
	Name    string
	Version string
	Title   string

	Dimensions layout.LabelDimensions
	Config     layout.LayoutConfig
	// FontSource 为 fonts.Load 可识别的来源，同时用作字体族名。
	FontSource string
	TextColor  color.Color

	Smart *layout.SmartPolicy
	// Product 为 nil 时商品完全来自数据记录。
	Product *layout.Product

	Aligns    map[string]layout.Align
	Positions map[string]layout.NormalizedPosition
	// LegacyPositions 记录按旧版像素坐标解析的元素 id，迁移时应改写为百分比。
	LegacyPositions []string

	Sheet *sheet.PageCanvas
}

// Load 读取并编译模板文件。
func Load(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开模板失败: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse 解析并编译模板。
func Parse(r io.Reader) (*Template, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析模板失败: %w", err)
	}
	return Compile(doc)
}

// Compile 把 AST 编译为模板。
func Compile(doc *dsl.Document) (*Template, error) {
	if doc == nil {
		return nil, fmt.Errorf("模板为空")
	}
	t := &Template{
		Name:      doc.Name,
		Version:   doc.Version,
		Config:    layout.DefaultConfig(),
		Aligns:    map[string]layout.Align{},
		Positions: map[string]layout.NormalizedPosition{},
	}
	var overrides *dsl.Block
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Meta != nil:
			err = t.compileMeta(section.Meta.Block)
		case section.Label != nil:
			err = t.compileLabel(section.Label)
		case section.Config != nil:
			err = t.compileConfig(section.Config.Block)
		case section.Smart != nil:
			err = t.compileSmart(section.Smart.Block)
		case section.Product != nil:
			err = t.compileProduct(section.Product.Block)
		case section.Overrides != nil:
			// 坐标换算依赖价签尺寸，放到最后处理
			overrides = section.Overrides.Block
		case section.Sheet != nil:
			err = t.compileSheet(section.Sheet)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", section.Kind(), err)
		}
	}
	if !t.Dimensions.Valid() {
		return nil, fmt.Errorf("缺少有效的 label 尺寸")
	}
	if overrides != nil {
		if err := t.compileOverrides(overrides); err != nil {
			return nil, fmt.Errorf("overrides: %w", err)
		}
	}
	return t, nil
}

func (t *Template) compileMeta(b *dsl.Block) error {
	return eachAssignment(b, func(key string, v *dsl.Value) error {
		if key == "title" {
			t.Title, _ = valueText(v)
		}
		return nil
	})
}

func (t *Template) compileLabel(s *dsl.LabelSection) error {
	if len(s.Params) != 2 {
		return fmt.Errorf("label 需要宽、高两个尺寸，例如 label 50mm 30mm")
	}
	w, err := lengthMM(s.Params[0].Value)
	if err != nil {
		return err
	}
	h, err := lengthMM(s.Params[1].Value)
	if err != nil {
		return err
	}
	t.Dimensions = layout.LabelDimensions{WidthMM: w, HeightMM: h}
	return nil
}

func (t *Template) compileConfig(b *dsl.Block) error {
	var lineHeight *layout.LineHeightSpec
	err := eachAssignment(b, func(key string, v *dsl.Value) error {
		text, ok := valueText(v)
		if !ok {
			return fmt.Errorf("%s 的值无效", key)
		}
		var err error
		switch key {
		case "padding":
			t.Config.PaddingMM, err = lengthMM(text)
		case "spacing":
			t.Config.ElementSpacingMM, err = lengthMM(text)
		case "min-font":
			t.Config.MinFontSize, err = fontPx(text)
		case "max-font":
			t.Config.MaxFontSize, err = fontPx(text)
		case "line-height":
			spec, ok := layout.ParseLineHeight(text)
			if !ok {
				return fmt.Errorf("无效的行高：%s", text)
			}
			lineHeight = &spec
		case "max-lines":
			t.Config.MaxLines, err = strconv.Atoi(text)
		case "step":
			t.Config.FontStep, err = strconv.ParseFloat(text, 64)
		case "font":
			t.FontSource = text
			t.Config.FontFamily = text
		case "family":
			t.Config.FontFamily = text
		case "color":
			t.TextColor, err = parseHexColor(text)
		default:
			return fmt.Errorf("未知的配置项：%s", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// 绝对行高按最大字号折算为系数
	if lineHeight != nil {
		t.Config.LineHeightMultiplier = lineHeight.Multiplier(t.Config.MaxFontSize)
	}
	return nil
}

func (t *Template) compileSmart(b *dsl.Block) error {
	policy := &layout.SmartPolicy{}
	for _, st := range b.Statements {
		switch {
		case st.Assignment != nil:
			key := string(st.Assignment.Key)
			text, _ := valueText(st.Assignment.Value)
			switch key {
			case "category":
				policy.Category = text
			case "long-name":
				n, err := strconv.Atoi(text)
				if err != nil {
					return fmt.Errorf("long-name: %w", err)
				}
				policy.LongNameRunes = n
			default:
				return fmt.Errorf("未知的智能策略项：%s", key)
			}
		case st.Command != nil && st.Command.Name == "range":
			nums, err := numbers(st.Command.Args)
			if err != nil || len(nums) != 3 {
				return fmt.Errorf("range 需要 min max boost 三个数值")
			}
			policy.PriceRanges = append(policy.PriceRanges, layout.PriceRange{Min: nums[0], Max: nums[1], PriceBoost: nums[2]})
		default:
			return fmt.Errorf("无法识别的智能策略语句")
		}
	}
	t.Smart = policy
	return nil
}

func (t *Template) compileProduct(b *dsl.Block) error {
	p := layout.Product{}
	for _, st := range b.Statements {
		switch {
		case st.Assignment != nil:
			key := string(st.Assignment.Key)
			v := st.Assignment.Value
			if key == "selling-points" {
				p.SellingPoints = valueList(v)
				continue
			}
			text, ok := valueText(v)
			if !ok {
				return fmt.Errorf("%s 的值无效", key)
			}
			switch key {
			case "name":
				p.Name = text
			case "price":
				p.Price = text
			case "brand":
				p.Brand = text
			case "category":
				p.Category = text
			default:
				return fmt.Errorf("未知的商品字段：%s", key)
			}
		case st.Bare != nil:
			p.SellingPoints = append(p.SellingPoints, string(st.Bare.Value))
		case st.Command != nil && (st.Command.Name == "specs" || st.Command.Name == "custom"):
			fields, err := blockFields(st.Command.Block)
			if err != nil {
				return fmt.Errorf("%s: %w", st.Command.Name, err)
			}
			if st.Command.Name == "specs" {
				p.Specs = fields
			} else {
				p.CustomFields = fields
			}
		default:
			return fmt.Errorf("无法识别的商品语句")
		}
	}
	t.Product = &p
	return nil
}

func (t *Template) compileOverrides(b *dsl.Block) error {
	widthPx, heightPx := t.Dimensions.PixelSize()
	for _, st := range b.Statements {
		cmd := st.Command
		if cmd == nil || len(cmd.Args) == 0 {
			return fmt.Errorf("overrides 只接受 align/position 命令")
		}
		id := cmd.Args[0].Value
		if _, err := layout.ParseElementID(id); err != nil {
			return err
		}
		switch cmd.Name {
		case "align":
			if len(cmd.Args) != 2 {
				return fmt.Errorf("align 需要元素 id 与对齐方式")
			}
			t.Aligns[id] = layout.ParseAlign(cmd.Args[1].Value)
		case "position":
			nums, err := numbers(cmd.Args[1:])
			if err != nil || len(nums) != 2 {
				return fmt.Errorf("position 需要元素 id 与 x y 两个数值")
			}
			pos, legacy := layout.DecodeStoredPosition(layout.StoredPosition{X: nums[0], Y: nums[1]}, widthPx, heightPx)
			t.Positions[id] = pos
			if legacy {
				t.LegacyPositions = append(t.LegacyPositions, id)
			}
		default:
			return fmt.Errorf("未知的覆盖命令：%s", cmd.Name)
		}
	}
	return nil
}

func (t *Template) compileSheet(s *dsl.SheetSection) error {
	params := s.Params
	if len(params) == 0 {
		return fmt.Errorf("sheet 需要纸张名称或宽高")
	}
	var (
		canvas sheet.PageCanvas
		err    error
	)
	if isLength(params[0].Value) {
		if len(params) < 2 || !isLength(params[1].Value) {
			return fmt.Errorf("自定义纸张需要宽、高两个尺寸")
		}
		canvas.WidthMM, _ = lengthMM(params[0].Value)
		canvas.HeightMM, _ = lengthMM(params[1].Value)
		canvas.Margins = sheet.UniformMargin(sheet.DefaultMargin)
		canvas.SpacingMM = sheet.DefaultSpacing
		params = params[2:]
	} else {
		if canvas, err = sheet.Preset(params[0].Value, false); err != nil {
			return err
		}
		params = params[1:]
	}

	for i := 0; i < len(params); i++ {
		switch strings.ToLower(params[i].Value) {
		case "portrait":
			if canvas.WidthMM > canvas.HeightMM {
				canvas.WidthMM, canvas.HeightMM = canvas.HeightMM, canvas.WidthMM
			}
		case "landscape":
			if canvas.WidthMM < canvas.HeightMM {
				canvas.WidthMM, canvas.HeightMM = canvas.HeightMM, canvas.WidthMM
			}
		case "horizontal", "rows", "vertical", "columns":
			canvas.Orientation = sheet.ParseOrientation(params[i].Value)
		case "margin":
			var vals []float64
			for i+1 < len(params) && isLength(params[i+1].Value) && len(vals) < 4 {
				v, _ := lengthMM(params[i+1].Value)
				vals = append(vals, v)
				i++
			}
			if len(vals) == 0 {
				return fmt.Errorf("margin 后缺少尺寸")
			}
			canvas.Margins = sheet.MarginFromValues(canvas.Margins, vals...)
		case "spacing":
			if i+1 >= len(params) || !isLength(params[i+1].Value) {
				return fmt.Errorf("spacing 后缺少尺寸")
			}
			canvas.SpacingMM, _ = lengthMM(params[i+1].Value)
			i++
		default:
			return fmt.Errorf("无法识别的纸张参数：%s", params[i].Value)
		}
	}
	t.Sheet = &canvas
	return nil
}
