package template

import (
	"github.com/ByLCY/pricetag/binding"
	"github.com/ByLCY/pricetag/layout"
	"github.com/ByLCY/pricetag/sheet"
)

// Bind 用一条数据记录生成商品。模板中的 ${item.xxx} 引用该记录；
// 模板没有 product 段时，记录本身按字段映射为商品。
func (t *Template) Bind(record any) (layout.Product, error) {
	if t.Product == nil {
		if record == nil {
			return layout.Product{}, nil
		}
		return binding.ProductFromRecord(record)
	}
	data := map[string]any{"item": record}
	p := *t.Product
	p.Name = binding.Interpolate(p.Name, data)
	p.Price = binding.Interpolate(p.Price, data)
	p.Brand = binding.Interpolate(p.Brand, data)
	p.Category = binding.Interpolate(p.Category, data)
	p.SellingPoints = make([]string, len(t.Product.SellingPoints))
	for i, sp := range t.Product.SellingPoints {
		p.SellingPoints[i] = binding.Interpolate(sp, data)
	}
	p.Specs = interpolateFields(t.Product.Specs, data)
	p.CustomFields = interpolateFields(t.Product.CustomFields, data)
	return p, nil
}

func interpolateFields(fields layout.Fields, data any) layout.Fields {
	if fields == nil {
		return nil
	}
	out := make(layout.Fields, len(fields))
	for i, f := range fields {
		out[i] = layout.Field{Key: f.Key, Value: binding.Interpolate(f.Value, data)}
	}
	return out
}

// BuildOptions 返回带有模板覆盖项的排版选项。
func (t *Template) BuildOptions(m layout.TextMeasurer) layout.BuildOptions {
	return layout.BuildOptions{
		Measurer:       m,
		Smart:          t.Smart,
		Positions:      t.Positions,
		AlignOverrides: t.Aligns,
	}
}

// Job 把一条数据记录转换为批量排版任务。
func (t *Template) Job(record any) (sheet.Job, error) {
	p, err := t.Bind(record)
	if err != nil {
		return sheet.Job{}, err
	}
	return sheet.Job{Size: t.Dimensions, Product: p, Config: t.Config}, nil
}

// Canvas 返回模板声明的纸张，未声明时使用 A4。
func (t *Template) Canvas() sheet.PageCanvas {
	if t.Sheet != nil {
		return *t.Sheet
	}
	c, _ := sheet.Preset("A4", false)
	return c
}
