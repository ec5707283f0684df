// Package report 把布局与排版结果渲染为终端摘要。
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/pricetag/layout"
	"github.com/ByLCY/pricetag/sheet"
)

// Theme 与终端配色相关的样式。
type Theme struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// DefaultTheme 返回默认配色。
func DefaultTheme() Theme {
	return Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4169E1")),
		Header:  lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#808080")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6347")),
	}
}

var columns = []struct {
	title string
	width int
}{
	{"元素", 18}, {"字号", 8}, {"行数", 6}, {"y", 9}, {"高度", 9}, {"对齐", 8}, {"文本", 0},
}

// Layout 输出单张价签的元素表与溢出提示。
func Layout(res *layout.LayoutResult, theme Theme) string {
	var b strings.Builder
	if res == nil || res.CanvasWidthPx <= 0 {
		b.WriteString(theme.Error.Render("价签尺寸无效，未生成布局"))
		return b.String()
	}
	b.WriteString(theme.Title.Render(fmt.Sprintf("价签 %.1f×%.1fmm · %d 个元素",
		layout.PxToMM(res.CanvasWidthPx), layout.PxToMM(res.CanvasHeightPx), len(res.Elements))))
	b.WriteString("\n")
	if res.Empty() {
		b.WriteString(theme.Muted.Render("没有可放置的元素"))
		return b.String()
	}

	header := make([]string, 0, len(columns))
	for _, c := range columns {
		header = append(header, cell(theme.Header, c.title, c.width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")
	for _, el := range res.Elements {
		values := []string{
			el.ID,
			fmt.Sprintf("%.1f", el.FontSize),
			fmt.Sprintf("%d", el.Lines),
			fmt.Sprintf("%.1f", el.Y),
			fmt.Sprintf("%.1f", el.Height),
			el.Align.String(),
			strings.ReplaceAll(el.WrappedText, "\n", " ⏎ "),
		}
		row := make([]string, 0, len(values))
		for i, v := range values {
			row = append(row, cell(lipgloss.NewStyle(), v, columns[i].width))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	if res.Overflow {
		b.WriteString(theme.Error.Render(fmt.Sprintf("内容溢出价签底部 %.1fpx，请缩减文字或增大价签", res.OverflowPx)))
	} else {
		b.WriteString(theme.Success.Render(fmt.Sprintf("已用高度 %.1f / %.1fpx", res.UsedHeight(), res.CanvasHeightPx)))
	}
	return b.String()
}

// Sheet 输出整纸排布摘要，total 为输入的价签数量。
func Sheet(res *sheet.PackResult, total int, theme Theme) string {
	var b strings.Builder
	if res == nil {
		return theme.Error.Render("没有排布结果")
	}
	c := res.Canvas
	b.WriteString(theme.Title.Render(fmt.Sprintf("纸张 %.1f×%.1fmm（%s）", c.WidthMM, c.HeightMM, c.Orientation)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("已放置 %d / %d 张价签", len(res.Placed), total))
	if len(res.Dropped) > 0 {
		idx := make([]string, 0, len(res.Dropped))
		for _, i := range res.Dropped {
			idx = append(idx, fmt.Sprintf("#%d", i+1))
		}
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(fmt.Sprintf("%d 张价签放不下被丢弃：%s", len(res.Dropped), strings.Join(idx, ", "))))
	}
	overflowing := 0
	for _, p := range res.Placed {
		if p.LabelLayout != nil && p.LabelLayout.Overflow {
			overflowing++
		}
	}
	if overflowing > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Error.Render(fmt.Sprintf("%d 张价签内容溢出", overflowing)))
	}
	return b.String()
}

func cell(style lipgloss.Style, text string, width int) string {
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}
