package layout

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func assertStacked(t *testing.T, res *LayoutResult) {
	t.Helper()
	for i := 0; i+1 < len(res.Elements); i++ {
		a, b := res.Elements[i], res.Elements[i+1]
		if a.Bottom() > b.Y+1e-9 {
			t.Fatalf("元素 %s 与 %s 重叠: bottom=%g next.y=%g", a.ID, b.ID, a.Bottom(), b.Y)
		}
	}
	for _, el := range res.Elements {
		if el.X+el.Width > res.CanvasWidthPx+1e-9 {
			t.Fatalf("元素 %s 横向越界: x+w=%g canvas=%g", el.ID, el.X+el.Width, res.CanvasWidthPx)
		}
	}
}

// TestScenarioBasicLabel 50×30mm 价签上的名称、价格、品牌三个元素。
func TestScenarioBasicLabel(t *testing.T) {
	dims := LabelDimensions{WidthMM: 50, HeightMM: 30}
	p := Product{Name: "商品名称", Price: "¥99.00", Brand: "品牌"}
	cfg := DefaultConfig()
	res := Compute(dims, p, cfg, BuildOptions{Measurer: fixedMeasurer{}})

	if len(res.Elements) != 3 {
		t.Fatalf("应放置 3 个元素，实际 %d", len(res.Elements))
	}
	if !near(res.CanvasHeightPx, 30*MmToPx) || !near(res.CanvasWidthPx, 50*MmToPx) {
		t.Fatalf("画布尺寸错误: %gx%g", res.CanvasWidthPx, res.CanvasHeightPx)
	}
	price, ok := res.Element("product_price")
	if !ok || price.Align != AlignCenter {
		t.Fatalf("价格应居中: %+v", price)
	}
	if name, _ := res.Element("product_name"); name.Align != AlignLeft {
		t.Fatalf("名称应左对齐: %+v", name)
	}
	assertStacked(t, res)
	limit := res.CanvasHeightPx - MMToPx(cfg.PaddingMM)
	if res.UsedHeight() > limit || res.Overflow {
		t.Fatalf("总高度超出价签: used=%g limit=%g", res.UsedHeight(), limit)
	}
	// 名称 24px、价格 24.8px、品牌 18px（见分配：37.8 / 30.2 / 22.7）
	want := []float64{24, 24.8, 18}
	for i, el := range res.Elements {
		if !near(el.FontSize, want[i]) {
			t.Fatalf("%s 字号错误: got=%g want=%g", el.ID, el.FontSize, want[i])
		}
		if el.Lines != 1 {
			t.Fatalf("%s 应为单行: %d", el.ID, el.Lines)
		}
	}
}

// TestScenarioOverflowingSellingPoints 10 条卖点挤在小价签上：字号退回下限，不重叠，标记溢出。
func TestScenarioOverflowingSellingPoints(t *testing.T) {
	p := Product{}
	for i := 0; i < 10; i++ {
		p.SellingPoints = append(p.SellingPoints, fmt.Sprintf("卖点描述第%d条", i+1))
	}
	cfg := DefaultConfig()
	res := Compute(LabelDimensions{WidthMM: 30, HeightMM: 20}, p, cfg, BuildOptions{Measurer: fixedMeasurer{}})
	if len(res.Elements) != 10 {
		t.Fatalf("应放置 10 个元素，实际 %d", len(res.Elements))
	}
	atMin := 0
	for _, el := range res.Elements {
		if near(el.FontSize, cfg.MinFontSize) {
			atMin++
		}
	}
	if atMin < 3 {
		t.Fatalf("至少应有若干元素退回最小字号，实际 %d", atMin)
	}
	assertStacked(t, res)
	if !res.Overflow || res.OverflowPx <= 0 {
		t.Fatalf("应标记溢出: %+v", res)
	}
	if res.UsedHeight() <= res.CanvasHeightPx {
		t.Fatalf("该场景最底部元素应越过价签高度: used=%g h=%g", res.UsedHeight(), res.CanvasHeightPx)
	}
}

// TestComputeIdempotent 相同输入两次运行得到完全相同的结果。
func TestComputeIdempotent(t *testing.T) {
	p := sampleProduct()
	dims := LabelDimensions{WidthMM: 60, HeightMM: 40}
	opts := BuildOptions{Measurer: fixedMeasurer{}, Smart: &SmartPolicy{Category: "food"}}
	a := Compute(dims, p, DefaultConfig(), opts)
	b := Compute(dims, p, DefaultConfig(), opts)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("两次布局结果不一致:\n%+v\n%+v", a, b)
	}
}

// TestComputeNoOverlapRandom 随机商品与尺寸下的不重叠与顺序不变式。
func TestComputeNoOverlapRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	words := []string{"有机", "牛奶", "Fresh", "Milk", "¥", "12.5", "进口", "Premium quality"}
	pick := func(n int) string {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			sb.WriteString(words[rng.Intn(len(words))])
		}
		return sb.String()
	}
	for round := 0; round < 100; round++ {
		p := Product{Name: pick(1 + rng.Intn(6)), Price: pick(1), Brand: pick(rng.Intn(2))}
		for i, n := 0, rng.Intn(5); i < n; i++ {
			p.SellingPoints = append(p.SellingPoints, pick(1+rng.Intn(4)))
		}
		dims := LabelDimensions{WidthMM: 20 + rng.Float64()*80, HeightMM: 15 + rng.Float64()*60}
		var m TextMeasurer
		if rng.Intn(2) == 0 {
			m = fixedMeasurer{}
		}
		res := Compute(dims, p, DefaultConfig(), BuildOptions{Measurer: m})
		assertStacked(t, res)
		ids := BuildCatalog(p)
		if len(ids) != len(res.Elements) {
			t.Fatalf("第 %d 轮元素数量不一致: %d vs %d", round, len(ids), len(res.Elements))
		}
		for i := range ids {
			if ids[i].ID != res.Elements[i].ID {
				t.Fatalf("第 %d 轮目录顺序未保持: %s vs %s", round, ids[i].ID, res.Elements[i].ID)
			}
		}
	}
}

// TestComputeDegenerateInput 退化输入返回空结果而不是报错。
func TestComputeDegenerateInput(t *testing.T) {
	p := Product{Name: "名称"}
	for _, dims := range []LabelDimensions{{0, 30}, {50, 0}, {-1, 10}} {
		if res := Compute(dims, p, DefaultConfig(), BuildOptions{}); !res.Empty() {
			t.Fatalf("非正尺寸 %+v 应返回空结果: %+v", dims, res)
		}
	}
	if res := Compute(LabelDimensions{50, 30}, Product{}, DefaultConfig(), BuildOptions{}); !res.Empty() {
		t.Fatalf("空目录应返回空结果: %+v", res)
	}
	cfg := DefaultConfig()
	cfg.PaddingMM = 20
	if res := Compute(LabelDimensions{30, 30}, p, cfg, BuildOptions{}); !res.Empty() {
		t.Fatalf("内边距吃掉全部空间时应返回空结果: %+v", res)
	}
}

// TestComputeAppliesSavedPositions 保存的百分比坐标按当前尺寸重新换算为像素。
func TestComputeAppliesSavedPositions(t *testing.T) {
	p := Product{Name: "名称", Price: "¥1"}
	opts := BuildOptions{
		Measurer:       fixedMeasurer{},
		Positions:      map[string]NormalizedPosition{"product_price": {XPct: 50, YPct: 75}},
		AlignOverrides: map[string]Align{"product_name": AlignRight},
	}
	small := Compute(LabelDimensions{40, 30}, p, DefaultConfig(), opts)
	large := Compute(LabelDimensions{80, 60}, p, DefaultConfig(), opts)
	ps, _ := small.Element("product_price")
	pl, _ := large.Element("product_price")
	if !near(ps.X, small.CanvasWidthPx/2) || !near(ps.Y, small.CanvasHeightPx*0.75) {
		t.Fatalf("小价签上的坐标错误: %+v", ps)
	}
	if !near(pl.X, 2*ps.X) || !near(pl.Y, 2*ps.Y) {
		t.Fatalf("尺寸翻倍后坐标应按比例换算: small=%+v large=%+v", ps, pl)
	}
	if ps.X+ps.Width > small.CanvasWidthPx+1e-9 {
		t.Fatalf("移动后的元素不应横向越界: %+v", ps)
	}
	if name, _ := small.Element("product_name"); name.Align != AlignRight {
		t.Fatalf("对齐覆盖未生效: %+v", name)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res := Compute(LabelDimensions{50, 30}, Product{Name: "名称", Price: "¥1"}, DefaultConfig(), BuildOptions{Measurer: fixedMeasurer{}})
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取调试 JSON 失败: %v", err)
	}
	var dump DebugDump
	if err := json.Unmarshal(data, &dump); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	if !near(dump.Label.WidthMM, 50) || !near(dump.Label.HeightMM, 30) {
		t.Fatalf("毫米尺寸错误: %+v", dump.Label)
	}
	if len(dump.Positions) != len(res.Elements) || !near(dump.UsedHeight, res.UsedHeight()) {
		t.Fatalf("调试 JSON 内容不完整: %+v", dump)
	}
	price, _ := res.Element("product_price")
	if pos := dump.Positions["product_price"]; !near(pos.YPct, price.Y/res.CanvasHeightPx*100) {
		t.Fatalf("价格百分比坐标错误: %+v", pos)
	}
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("nil 结果应直接返回: %v", err)
	}
}

// TestComputeElementsDuplicateIDs 直接传入重复 id 时只保留第一个，分配总和不超过内容高度。
func TestComputeElementsDuplicateIDs(t *testing.T) {
	elems := []ContentElement{
		{ID: "spec_a", Kind: SpecKind("a"), Priority: 5, Weight: 0.06, Text: "a: 1"},
		{ID: "spec_a", Kind: SpecKind("a"), Priority: 5.01, Weight: 0.06, Text: "a: 2"},
	}
	res := ComputeElements(LabelDimensions{WidthMM: 50, HeightMM: 30}, elems, DefaultConfig(), BuildOptions{Measurer: fixedMeasurer{}})
	if len(res.Elements) != 1 {
		t.Fatalf("重复 id 应去重，实际 %d 个元素", len(res.Elements))
	}
	el := res.Elements[0]
	if el.WrappedText != "a: 1" {
		t.Fatalf("应保留第一个元素: %q", el.WrappedText)
	}
	if content := MMToPx(30 - 2*defaultPaddingMM); !near(el.Allocated, content) {
		t.Fatalf("分配高度应等于内容高度 %.3f，实际 %.3f", content, el.Allocated)
	}
}
