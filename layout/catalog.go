package layout

import (
	"strings"

	"github.com/samber/lo"
)

// 元素目录：把商品数据展开为带优先级与权重的有序元素列表。

// Field 是有序键值对中的一项。
type Field struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Fields 保留调用方给出的插入顺序，避免 map 的随机遍历顺序破坏元素排序。
type Fields []Field

// Get 返回第一个匹配 key 的值。
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Set 更新已有 key，或在末尾追加。
func (f Fields) Set(key, value string) Fields {
	for i := range f {
		if f[i].Key == key {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Key: key, Value: value})
}

// Product 是一条商品数据记录。
type Product struct {
	Name          string   `json:"name" yaml:"name"`
	Price         string   `json:"price" yaml:"price"`
	Brand         string   `json:"brand" yaml:"brand"`
	SellingPoints []string `json:"sellingPoints" yaml:"sellingPoints"`
	Specs         Fields   `json:"specs" yaml:"specs"`
	CustomFields  Fields   `json:"customFields" yaml:"customFields"`
	// Category 仅供 SmartPolicy 使用，不会成为元素。
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

const (
	weightName         = 0.25
	weightPrice        = 0.20
	weightBrand        = 0.15
	weightSellingPoint = 0.08
	weightSpec         = 0.06
	weightCustom       = 0.06

	priorityName         = 1
	priorityPrice        = 2
	priorityBrand        = 3
	prioritySellingPoint = 4
	prioritySpec         = 5
	priorityCustom       = 6
	priorityStep         = 0.01
)

// BuildCatalog 按固定字段、卖点、规格、自定义字段的顺序生成元素，空文本元素被剔除。
func BuildCatalog(p Product) []ContentElement {
	var out []ContentElement
	add := func(kind ElementKind, priority, weight float64, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		out = append(out, ContentElement{
			ID:       kind.ID(),
			Kind:     kind,
			Priority: priority,
			Weight:   weight,
			Text:     text,
		})
	}

	add(NameKind(), priorityName, weightName, p.Name)
	add(PriceKind(), priorityPrice, weightPrice, p.Price)
	add(BrandKind(), priorityBrand, weightBrand, p.Brand)

	for i, sp := range p.SellingPoints {
		add(SellingPointKind(i), prioritySellingPoint+priorityStep*float64(i), weightSellingPoint, sp)
	}
	for i, f := range p.Specs {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		add(SpecKind(f.Key), prioritySpec+priorityStep*float64(i), weightSpec, f.Key+": "+f.Value)
	}
	for i, f := range p.CustomFields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		add(CustomFieldKind(f.Key), priorityCustom+priorityStep*float64(i), weightCustom, f.Key+": "+f.Value)
	}
	return dedupeIDs(out)
}

// dedupeIDs 保留同一 id 的第一个元素：两个 key 归一化后相同（如 "Color" 与 "color"）时，
// 后者会与前者共享身份，保存的位置将无法区分它们。
func dedupeIDs(elems []ContentElement) []ContentElement {
	return lo.UniqBy(elems, func(el ContentElement) string { return el.ID })
}

// nonEmpty 过滤掉空文本元素，供直接传入元素列表的调用方使用。
func nonEmpty(elems []ContentElement) []ContentElement {
	return lo.Filter(elems, func(el ContentElement, _ int) bool {
		return strings.TrimSpace(el.Text) != ""
	})
}
