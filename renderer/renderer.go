package renderer

import (
	"github.com/ByLCY/pricetag/layout"
	"github.com/ByLCY/pricetag/sheet"
)

// Renderer 将布局结果输出为最终文件，例如 PDF 或图像。
// 返回生成的二进制数据（例如 PDF 字节切片）以及可能的错误。
type Renderer interface {
	// RenderLabel 输出单张价签，页面大小等于价签尺寸。
	RenderLabel(result *layout.LayoutResult) ([]byte, error)
	// RenderSheet 输出整张纸，每张价签画在打包器给出的位置上。
	RenderSheet(result *sheet.PackResult) ([]byte, error)
}
