package binding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	data := map[string]any{
		"item": map[string]any{"name": "牛奶", "tags": []any{"a", "b"}, "price": 9.9},
	}
	assert.Equal(t, "名称：牛奶", Interpolate("名称：${item.name}", data))
	assert.Equal(t, "b", Interpolate("${ item.tags[1] }", data))
	assert.Equal(t, "9.9", Interpolate("${item.price}", data))
	assert.Equal(t, "${item.missing}", Interpolate("${item.missing}", data))
	assert.Equal(t, "${item.tags[5]}", Interpolate("${item.tags[5]}", data))
	assert.Equal(t, "${x}", Interpolate("${x}", nil))
	assert.True(t, HasPlaceholder("a ${b}"))
	assert.False(t, HasPlaceholder("a b"))
}

func TestDecodeKeepsOrderAndRawScalars(t *testing.T) {
	data, err := Decode(strings.NewReader(`
item:
  zeta: 1
  alpha: 9.90
  mid: ~
  list: [x, y]
`))
	require.NoError(t, err)
	root, ok := data.(*Map)
	require.True(t, ok)
	item, _ := root.Get("item")
	m := item.(*Map)
	assert.Equal(t, []string{"zeta", "alpha", "mid", "list"}, m.Keys())
	v, _ := m.Get("alpha")
	assert.Equal(t, "9.90", v)
	v, ok = m.Get("mid")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, "y", Interpolate("${item.list[1]}", data))

	empty, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, empty)

	_, err = Decode(strings.NewReader("a: [1, 2"))
	assert.Error(t, err)
}

func TestLoadProductsYAML(t *testing.T) {
	products, err := LoadProducts(strings.NewReader(`
products:
  - name: 有机纯牛奶
    price: "¥59.90"
    brand: 牧场
    category: food
    selling-points: [高钙, 零添加]
    specs:
      容量: 250ml
      Net Weight: 260g
      产地: 内蒙古
    custom:
      batch: A01
  - name: 第二件
    price: 12
    sellingPoints: 单条卖点
`))
	require.NoError(t, err)
	require.Len(t, products, 2)

	p := products[0]
	assert.Equal(t, "有机纯牛奶", p.Name)
	assert.Equal(t, "¥59.90", p.Price)
	assert.Equal(t, "food", p.Category)
	assert.Equal(t, []string{"高钙", "零添加"}, p.SellingPoints)
	require.Len(t, p.Specs, 3)
	assert.Equal(t, "容量", p.Specs[0].Key)
	assert.Equal(t, "Net Weight", p.Specs[1].Key)
	assert.Equal(t, "产地", p.Specs[2].Key)
	v, ok := p.CustomFields.Get("batch")
	assert.True(t, ok)
	assert.Equal(t, "A01", v)

	assert.Equal(t, "12", products[1].Price)
	assert.Equal(t, []string{"单条卖点"}, products[1].SellingPoints)
}

func TestLoadProductsJSON(t *testing.T) {
	products, err := LoadProducts(strings.NewReader(`[
  {"name": "A", "specs": {"z": "1", "a": "2"}},
  {"name": "B"}
]`))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "z", products[0].Specs[0].Key)
	assert.Equal(t, "a", products[0].Specs[1].Key)
	assert.Equal(t, "B", products[1].Name)
}

func TestLoadProductsErrors(t *testing.T) {
	_, err := LoadProducts(strings.NewReader(`products: nope`))
	assert.Error(t, err)
	_, err = LoadProducts(strings.NewReader(`- just a string`))
	assert.Error(t, err)
	_, err = LoadProducts(strings.NewReader(`- name: x
  specs: [a, b]`))
	assert.Error(t, err)

	single, err := LoadProducts(strings.NewReader(`name: 单个商品`))
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "单个商品", single[0].Name)
}
