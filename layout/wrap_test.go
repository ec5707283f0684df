package layout

import (
	"math/rand"
	"strings"
	"testing"
)

func TestWrapTextGreedyByCharacter(t *testing.T) {
	n, text := WrapText("abcdefgh", 35, 3, charMeasure(10))
	if n != 3 || text != "abc\ndef\ngh" {
		t.Fatalf("逐字符折行错误: n=%d text=%q", n, text)
	}
	n, text = WrapText("商品名称很长", 45, 3, charMeasure(10))
	if n != 2 || text != "商品名称\n很长" {
		t.Fatalf("中文折行错误: n=%d text=%q", n, text)
	}
}

// TestWrapTextTruncatesWithEllipsis 超出行数时最后一行截掉 3 个字符并追加省略号。
func TestWrapTextTruncatesWithEllipsis(t *testing.T) {
	n, text := WrapText("abcdefghijklmnopq", 55, 3, charMeasure(10))
	if n != 3 {
		t.Fatalf("行数应被截断为 3，实际 %d", n)
	}
	if text != "abcde\nfghij\nkl..." {
		t.Fatalf("截断结果错误: %q", text)
	}
	res := wrapMeasured("abcdefghijk", 35, 3, charMeasure(10))
	if !res.Truncated || res.Lines[2] != "..." {
		t.Fatalf("短行截断应只剩省略号: %+v", res)
	}
}

// TestWrapTextForcePlacesWideCharacter 单个字符超宽时独占一行，不会死循环。
func TestWrapTextForcePlacesWideCharacter(t *testing.T) {
	n, text := WrapText("abc", 5, 5, charMeasure(10))
	if n != 3 || text != "a\nb\nc" {
		t.Fatalf("超宽字符应各占一行: n=%d text=%q", n, text)
	}
	n, _ = WrapText("abcdef", 0, 2, charMeasure(10))
	if n != 2 {
		t.Fatalf("零宽度也应受行数上限约束: %d", n)
	}
}

func TestWrapTextHonorsNewlines(t *testing.T) {
	n, text := WrapText("foo\n\nbar", 1000, 3, charMeasure(10))
	if n != 3 || text != "foo\n\nbar" {
		t.Fatalf("显式换行处理错误: n=%d text=%q", n, text)
	}
	// 第一行恰好占满宽度后紧跟换行，不应产生额外空行。
	n, text = WrapText("abc\ndef", 30, 3, charMeasure(10))
	if n != 2 || text != "abc\ndef" {
		t.Fatalf("等宽行后的换行不应产生空行: n=%d text=%q", n, text)
	}
	n, _ = WrapText("a\nb\nc\n\n", 1000, 3, charMeasure(10))
	if n != 3 {
		t.Fatalf("结尾多余换行不应触发截断: %d", n)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if n, text := WrapText("", 100, 3, charMeasure(10)); n != 0 || text != "" {
		t.Fatalf("空文本应返回 0 行: n=%d text=%q", n, text)
	}
}

// TestWrapCapProperty 任意输入都不超过 maxLines 行；发生截断时最后一行以 "..." 结尾。
func TestWrapCapProperty(t *testing.T) {
	alphabet := []rune("ab 中文价签¥9.\n")
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 500; round++ {
		var sb strings.Builder
		for i, n := 0, rng.Intn(80); i < n; i++ {
			sb.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		maxLines := 1 + rng.Intn(4)
		width := rng.Float64() * 120
		res := wrapMeasured(sb.String(), width, maxLines, fixedMeasurer{}.widthAt(12))
		if res.Count() > maxLines {
			t.Fatalf("第 %d 轮行数超限: %d > %d (%q)", round, res.Count(), maxLines, sb.String())
		}
		if res.Truncated && !strings.HasSuffix(res.Lines[len(res.Lines)-1], Ellipsis) {
			t.Fatalf("第 %d 轮截断后末行缺少省略号: %q", round, res.Lines)
		}
		est := wrapByCount(sb.String(), 1+rng.Intn(6), maxLines)
		if est.Count() > maxLines {
			t.Fatalf("第 %d 轮估算折行行数超限: %d", round, est.Count())
		}
	}
}

func (m fixedMeasurer) widthAt(size float64) func(string) float64 {
	return func(s string) float64 { return m.MeasureWidth(s, "", size) }
}
