package measure

import (
	"bytes"
	"fmt"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
)

// Shaper 使用 go-text 的 HarfBuzz 实现测宽。
type Shaper struct {
	mu       sync.Mutex
	shaper   shaping.HarfbuzzShaper
	faces    map[string]*gofont.Face
	fallback *gofont.Face
}

// NewShaper 用 data 作为默认字体；未注册的字体族都回退到它。
func NewShaper(data []byte) (*Shaper, error) {
	face, err := parseFace(data)
	if err != nil {
		return nil, err
	}
	return &Shaper{faces: map[string]*gofont.Face{}, fallback: face}, nil
}

// Register 为字体族注册字体数据。
func (s *Shaper) Register(family string, data []byte) error {
	face, err := parseFace(data)
	if err != nil {
		return fmt.Errorf("注册字体 %s 失败: %w", family, err)
	}
	s.mu.Lock()
	s.faces[family] = face
	s.mu.Unlock()
	return nil
}

func parseFace(data []byte) (*gofont.Face, error) {
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	return face, nil
}

// MeasureWidth 返回 text 在 fontSize（px）下的宽度。混排文本按文字系统切分后分别整形。
func (s *Shaper) MeasureWidth(text string, fontFamily string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	face := s.faces[fontFamily]
	if face == nil {
		face = s.fallback
	}
	size := fixed.Int26_6(fontSize * 64)
	var total fixed.Int26_6
	for _, run := range splitRuns([]rune(text)) {
		out := s.shaper.Shape(shaping.Input{
			Text:      run.runes,
			RunStart:  0,
			RunEnd:    len(run.runes),
			Direction: scriptDirection(run.script),
			Face:      face,
			Size:      size,
			Script:    run.script,
			Language:  language.DefaultLanguage(),
		})
		total += out.Advance
	}
	return float64(total) / 64
}

type scriptRun struct {
	script language.Script
	runes  []rune
}

// splitRuns 按文字系统切分；数字、标点、空格等中性字符跟随前一段。
func splitRuns(runes []rune) []scriptRun {
	var runs []scriptRun
	for _, r := range runes {
		sc := scriptFromRune(r)
		if len(runs) == 0 {
			if sc == language.Unknown {
				sc = language.Latin
			}
			runs = append(runs, scriptRun{script: sc})
		}
		last := &runs[len(runs)-1]
		if sc != language.Unknown && sc != last.script {
			runs = append(runs, scriptRun{script: sc})
			last = &runs[len(runs)-1]
		}
		last.runes = append(last.runes, r)
	}
	return runs
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Thai, r):
		return language.Thai
	default:
		return language.Unknown
	}
}
