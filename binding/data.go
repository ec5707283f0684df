package binding

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/pricetag/layout"
)

// Map 是保持插入顺序的映射。商品规格等字段的顺序决定元素顺序，不能用普通 map。
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap 创建空的有序映射。
func NewMap() *Map { return &Map{values: map[string]any{}} }

// Set 写入键值，已存在的键保持原有位置。
func (m *Map) Set(key string, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys 按插入顺序返回全部键。
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Decode 读取 YAML 或 JSON 文档。映射解码为 *Map，序列为 []any，标量保留原文字符串（"9.90" 不会变成 9.9）。
func Decode(r io.Reader) (any, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("解析数据失败: %w", err)
	}
	return fromNode(&doc)
}

func fromNode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(n.Content[i].Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return n.Value, nil
	case yaml.AliasNode:
		return fromNode(n.Alias)
	default:
		return nil, fmt.Errorf("第 %d 行：无法识别的数据节点", n.Line)
	}
}

// Records 从数据中取出商品记录列表：顶层为列表，或顶层映射下的 products/items 列表。
// 单个映射视为只有一条记录。
func Records(data any) ([]any, error) {
	switch c := data.(type) {
	case nil:
		return nil, nil
	case []any:
		return c, nil
	case *Map:
		for _, key := range []string{"products", "items"} {
			if v, ok := c.Get(key); ok {
				list, ok := v.([]any)
				if !ok {
					return nil, fmt.Errorf("%s 必须是列表", key)
				}
				return list, nil
			}
		}
		return []any{c}, nil
	default:
		return nil, fmt.Errorf("商品数据必须是映射或列表")
	}
}

// LoadProducts 读取商品数据文件并转换为 layout.Product。
func LoadProducts(r io.Reader) ([]layout.Product, error) {
	data, err := Decode(r)
	if err != nil {
		return nil, err
	}
	records, err := Records(data)
	if err != nil {
		return nil, err
	}
	out := make([]layout.Product, 0, len(records))
	for i, rec := range records {
		p, err := ProductFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("第 %d 条商品: %w", i+1, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ProductFromRecord 把一条记录映射为商品。键名不区分大小写，
// sellingPoints / selling-points / selling_points 视为同一个键。未知的键被忽略。
func ProductFromRecord(rec any) (layout.Product, error) {
	m, ok := rec.(*Map)
	if !ok {
		return layout.Product{}, fmt.Errorf("商品记录必须是映射")
	}
	var p layout.Product
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		switch canonicalKey(key) {
		case "name":
			p.Name = toText(v)
		case "price":
			p.Price = toText(v)
		case "brand":
			p.Brand = toText(v)
		case "category":
			p.Category = toText(v)
		case "sellingpoints":
			p.SellingPoints = toList(v)
		case "specs", "specifications":
			fields, err := toFields(v)
			if err != nil {
				return layout.Product{}, fmt.Errorf("%s: %w", key, err)
			}
			p.Specs = fields
		case "custom", "customfields":
			fields, err := toFields(v)
			if err != nil {
				return layout.Product{}, fmt.Errorf("%s: %w", key, err)
			}
			p.CustomFields = fields
		}
	}
	return p, nil
}

func canonicalKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(k)
}

func toList(v any) []string {
	switch c := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(c))
		for _, item := range c {
			out = append(out, toText(item))
		}
		return out
	default:
		return []string{toText(c)}
	}
}

func toFields(v any) (layout.Fields, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case *Map:
		out := make(layout.Fields, 0, c.Len())
		for _, k := range c.Keys() {
			val, _ := c.Get(k)
			out = append(out, layout.Field{Key: k, Value: toText(val)})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("必须是键值映射")
	}
}
