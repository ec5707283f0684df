package layout

import (
	"strings"
	"unicode/utf8"
)

// Ellipsis 是超出行数上限时追加在最后一行末尾的截断标记。
const Ellipsis = "..."

// estimateCharWidth 是无测宽后端时每个字符的宽度系数（相对字号）。
const estimateCharWidth = 0.6

// WrapResult 是折行结果。
type WrapResult struct {
	Lines     []string
	Truncated bool
}

// Count 返回行数。
func (w WrapResult) Count() int { return len(w.Lines) }

// Text 返回以 "\n" 连接的折行文本。
func (w WrapResult) Text() string { return strings.Join(w.Lines, "\n") }

// WrapText 逐字符贪心折行：中日韩文本没有空格分词，所以不按单词断行。
// 加入下一个字符会超出 maxWidth 时换行；单个字符本身就超宽时独占一行。
// 行数达到 maxLines 后，最后一行去掉末尾 3 个字符并追加 "..."，其余文本丢弃。
// 返回 (行数, "\n" 连接的文本)。
func WrapText(text string, maxWidth float64, maxLines int, measure func(string) float64) (int, string) {
	res := wrapMeasured(text, maxWidth, maxLines, measure)
	return res.Count(), res.Text()
}

func wrapMeasured(text string, maxWidth float64, maxLines int, measure func(string) float64) WrapResult {
	w := newLineWrapper(maxLines)
	for _, r := range normalizeNewlines(text) {
		if w.done {
			break
		}
		if r == '\n' {
			w.breakLine()
			continue
		}
		ch := string(r)
		if w.current.Len() == 0 {
			w.push(ch)
			if measure(ch) > maxWidth {
				// 单个字符超宽：独占一行，避免死循环。
				w.closeLine()
			}
			continue
		}
		if measure(w.current.String()+ch) > maxWidth {
			w.closeLine()
			w.push(ch)
			if measure(ch) > maxWidth {
				w.closeLine()
			}
			continue
		}
		w.push(ch)
	}
	return w.finish()
}

// wrapByCount 是无测宽后端时的估算折行：每行固定 perLine 个字符。
func wrapByCount(text string, perLine, maxLines int) WrapResult {
	if perLine < 1 {
		perLine = 1
	}
	w := newLineWrapper(maxLines)
	for _, r := range normalizeNewlines(text) {
		if w.done {
			break
		}
		if r == '\n' {
			w.breakLine()
			continue
		}
		if w.currentRunes >= perLine {
			w.closeLine()
		}
		w.push(string(r))
	}
	return w.finish()
}

// closeReason 记录上一行是因何闭合的。
type closeReason int

const (
	closedNone closeReason = iota
	closedByWidth
	closedByNewline
)

// lineWrapper 累积行并负责行数上限与截断。
type lineWrapper struct {
	maxLines     int
	lines        []string
	current      strings.Builder
	currentRunes int
	// pendingBreak 表示当前行已闭合，下一个字符需要新开一行。
	pendingBreak bool
	lastClose    closeReason
	truncated    bool
	done         bool
}

func newLineWrapper(maxLines int) *lineWrapper {
	if maxLines <= 0 {
		maxLines = defaultMaxLines
	}
	return &lineWrapper{maxLines: maxLines}
}

func (w *lineWrapper) push(ch string) {
	if w.pendingBreak {
		if len(w.lines) >= w.maxLines {
			w.truncate()
			return
		}
		w.pendingBreak = false
	}
	w.current.WriteString(ch)
	w.currentRunes++
}

// closeLine 闭合当前非空行。
func (w *lineWrapper) closeLine() {
	if w.current.Len() == 0 {
		return
	}
	w.lines = append(w.lines, w.current.String())
	w.current.Reset()
	w.currentRunes = 0
	w.pendingBreak = true
	w.lastClose = closedByWidth
}

// breakLine 处理显式换行：连续换行产生空行，但紧跟在按宽度闭合之后的换行不再额外占一行。
func (w *lineWrapper) breakLine() {
	switch {
	case w.current.Len() > 0:
		w.closeLine()
	case w.lastClose == closedByWidth:
	case len(w.lines) >= w.maxLines:
		// 已满：只有后续还有字符时才截断。
		w.pendingBreak = true
	default:
		w.lines = append(w.lines, "")
		w.pendingBreak = true
	}
	w.lastClose = closedByNewline
}

func (w *lineWrapper) truncate() {
	w.done = true
	w.truncated = true
	if len(w.lines) == 0 {
		return
	}
	last := w.lines[len(w.lines)-1]
	runes := []rune(last)
	keep := len(runes) - utf8.RuneCountInString(Ellipsis)
	if keep < 0 {
		keep = 0
	}
	w.lines[len(w.lines)-1] = string(runes[:keep]) + Ellipsis
}

func (w *lineWrapper) finish() WrapResult {
	if !w.done && w.current.Len() > 0 {
		w.lines = append(w.lines, w.current.String())
		w.current.Reset()
	}
	return WrapResult{Lines: w.lines, Truncated: w.truncated}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}
