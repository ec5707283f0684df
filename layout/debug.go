package layout

import (
	"encoding/json"
	"os"
)

// DebugDump 是调试 JSON 的结构：布局结果之外附带毫米尺寸与可直接保存的百分比坐标，
// 前端拖拽编辑器可以拿它与自身的渲染结果对照。
type DebugDump struct {
	Label      LabelDimensions               `json:"label"`
	UsedHeight float64                       `json:"usedHeightPx"`
	Result     *LayoutResult                 `json:"result"`
	Positions  map[string]NormalizedPosition `json:"positions"`
}

// NewDebugDump 由布局结果生成调试结构。
func NewDebugDump(res *LayoutResult) DebugDump {
	return DebugDump{
		Label:      LabelDimensions{WidthMM: PxToMM(res.CanvasWidthPx), HeightMM: PxToMM(res.CanvasHeightPx)},
		UsedHeight: res.UsedHeight(),
		Result:     res,
		Positions:  ExtractPositions(res),
	}
}

// WriteDebugJSON 把 DebugDump 写入 path；res 为 nil 时什么也不做。
func WriteDebugJSON(res *LayoutResult, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(NewDebugDump(res), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
