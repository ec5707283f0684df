package layout

import "github.com/samber/lo"

// Allocate 按权重把可用高度（已扣除内边距）分给各元素，元素之间预留 spacingPx。
// 这里不做最小/最大值裁剪：字号下限会让实际高度超出分配，由排版阶段处理。
func Allocate(elems []ContentElement, availableHeight, spacingPx float64) map[string]float64 {
	out := make(map[string]float64, len(elems))
	n := len(elems)
	if n == 0 {
		return out
	}
	content := availableHeight - float64(n-1)*spacingPx
	if content < 0 {
		content = 0
	}
	total := lo.SumBy(elems, func(el ContentElement) float64 {
		if el.Weight > 0 {
			return el.Weight
		}
		return 0
	})
	for _, el := range elems {
		share := 1.0 / float64(n)
		if total > 0 {
			share = 0
			if el.Weight > 0 {
				share = el.Weight / total
			}
		}
		out[el.ID] += share * content
	}
	return out
}
