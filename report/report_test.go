package report

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ByLCY/pricetag/layout"
	"github.com/ByLCY/pricetag/sheet"
)

func TestLayoutReport(t *testing.T) {
	res := layout.Compute(
		layout.LabelDimensions{WidthMM: 50, HeightMM: 30},
		layout.Product{Name: "有机纯牛奶", Price: "¥9.90"},
		layout.DefaultConfig(),
		layout.BuildOptions{},
	)
	out := Layout(res, DefaultTheme())
	assert.Contains(t, out, "50.0×30.0mm")
	assert.Contains(t, out, "product_name")
	assert.Contains(t, out, "product_price")
	assert.Contains(t, out, "center")
	assert.Contains(t, out, "已用高度")
	assert.NotContains(t, out, "溢出")
}

func TestLayoutReportOverflow(t *testing.T) {
	p := layout.Product{}
	for i := 0; i < 10; i++ {
		p.SellingPoints = append(p.SellingPoints, fmt.Sprintf("卖点描述第%d条", i))
	}
	res := layout.Compute(layout.LabelDimensions{WidthMM: 30, HeightMM: 20}, p, layout.DefaultConfig(), layout.BuildOptions{})
	out := Layout(res, DefaultTheme())
	assert.Contains(t, out, "内容溢出")

	assert.Contains(t, Layout(nil, DefaultTheme()), "价签尺寸无效")
	empty := layout.Compute(layout.LabelDimensions{WidthMM: 30, HeightMM: 20}, layout.Product{}, layout.DefaultConfig(), layout.BuildOptions{})
	assert.Contains(t, Layout(empty, DefaultTheme()), "没有可放置的元素")
}

func TestSheetReport(t *testing.T) {
	canvas, _ := sheet.Preset("A6", false)
	labels := []sheet.LabelInput{
		{Size: layout.LabelDimensions{WidthMM: 40, HeightMM: 30}},
		{Size: layout.LabelDimensions{WidthMM: 400, HeightMM: 30}},
		{Size: layout.LabelDimensions{WidthMM: 40, HeightMM: 30}},
	}
	res := sheet.Pack(labels, canvas)
	out := Sheet(&res, len(labels), DefaultTheme())
	assert.Contains(t, out, "已放置 2 / 3")
	assert.Contains(t, out, "#2")
	assert.Contains(t, out, "horizontal")
	assert.Contains(t, Sheet(nil, 0, DefaultTheme()), "没有排布结果")
}
