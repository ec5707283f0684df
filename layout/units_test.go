package layout

import (
	"math"
	"testing"
)

// TestMmPxRoundTrip 验证 mm↔px 换算的往返精度与 96 DPI 常量。
func TestMmPxRoundTrip(t *testing.T) {
	if MmToPx != 3.7795275591 {
		t.Fatalf("MmToPx 常量被修改: %v", MmToPx)
	}
	samples := []float64{0, 0.001, 1, 12, 30, 50, 210, 297, 1000}
	for _, mm := range samples {
		back := PxToMM(MMToPx(mm))
		if diff := math.Abs(back - mm); diff > 1e-9 {
			t.Fatalf("mm→px→mm 往返误差过大: in=%gmm back=%g diff=%g", mm, back, diff)
		}
	}
	if got := MMToPx(25.4); math.Abs(got-96) > 1e-6 {
		t.Fatalf("1in 应为 96px，实际 %g", got)
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthToConversions(t *testing.T) {
	cases := []struct {
		in     Length
		target Unit
		want   float64
	}{
		{Length{Value: 1, Unit: UnitIN}, UnitMM, 25.4},
		{Length{Value: 2.54, Unit: UnitCM}, UnitMM, 25.4},
		{Length{Value: 12, Unit: UnitPT}, UnitMM, 12 * PtToMm},
		{Length{Value: 10, Unit: UnitMM}, UnitPX, 10 * MmToPx},
		{Length{Value: 96, Unit: UnitPX}, UnitIN, 1},
		{Length{Value: 5, Unit: UnitNone}, UnitMM, 5},
	}
	for _, c := range cases {
		if got := c.in.To(c.target); math.Abs(got-c.want) > 1e-6 {
			t.Fatalf("%v 转 %s 期望 %g，实际 %g", c.in, UnitToString(c.target), c.want, got)
		}
	}
}

func TestParseRawLengthStr(t *testing.T) {
	if l := ParseRawLengthStr("50mm"); l.Value != 50 || l.Unit != UnitMM {
		t.Fatalf("50mm 解析错误: %+v", l)
	}
	if l := ParseRawLengthStr(" 12PX "); l.Value != 12 || l.Unit != UnitPX {
		t.Fatalf("12PX 解析错误: %+v", l)
	}
	if l := ParseRawLengthStr("abc"); l.Value != 0 || l.Unit != UnitNone {
		t.Fatalf("非法长度应返回零值: %+v", l)
	}
}

// TestParseLineHeight 验证倍数与绝对值两种行高写法。
func TestParseLineHeight(t *testing.T) {
	lh, ok := ParseLineHeight("1.3x")
	if !ok || lh.Kind != LineHeightFactor || lh.Multiplier(20) != 1.3 {
		t.Fatalf("1.3x 解析错误: %+v", lh)
	}
	lh, ok = ParseLineHeight("24px")
	if !ok || lh.Kind != LineHeightAbsolute {
		t.Fatalf("24px 应为绝对行高: %+v", lh)
	}
	if got := lh.Multiplier(20); math.Abs(got-1.2) > 1e-9 {
		t.Fatalf("24px 相对 20px 字号应为 1.2 倍，实际 %g", got)
	}
	if _, ok := ParseLineHeight("-1x"); ok {
		t.Fatalf("负倍数应被拒绝")
	}
}
