package measure

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

type faceKey struct {
	family string
	size   float64
}

// Opentype 使用 x/image 的 opentype 字形度量测宽，不做整形。
// 每个 (字体族, 字号) 组合的 face 会被缓存。
type Opentype struct {
	mu       sync.Mutex
	fonts    map[string]*sfnt.Font
	fallback *sfnt.Font
	faces    map[faceKey]font.Face
}

// NewOpentype 用 data 作为默认字体。
func NewOpentype(data []byte) (*Opentype, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	return &Opentype{
		fonts:    map[string]*sfnt.Font{},
		fallback: f,
		faces:    map[faceKey]font.Face{},
	}, nil
}

// Register 为字体族注册字体数据，已缓存的该族 face 会失效。
func (o *Opentype) Register(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("注册字体 %s 失败: %w", family, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fonts[family] = f
	for k, face := range o.faces {
		if k.family == family {
			face.Close()
			delete(o.faces, k)
		}
	}
	return nil
}

// MeasureWidth 返回 text 在 fontSize（px）下的宽度。
func (o *Opentype) MeasureWidth(text string, fontFamily string, fontSize float64) float64 {
	if text == "" || fontSize <= 0 {
		return 0
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	face, err := o.face(fontFamily, fontSize)
	if err != nil {
		return 0
	}
	return float64(font.MeasureString(face, text)) / 64
}

func (o *Opentype) face(family string, size float64) (font.Face, error) {
	if _, ok := o.fonts[family]; !ok {
		family = ""
	}
	key := faceKey{family: family, size: size}
	if face, ok := o.faces[key]; ok {
		return face, nil
	}
	f := o.fallback
	if family != "" {
		f = o.fonts[family]
	}
	// DPI 72 时 1pt = 1px，Size 直接就是像素字号
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	o.faces[key] = face
	return face, nil
}

// Close 释放缓存的 face。
func (o *Opentype) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for k, face := range o.faces {
		face.Close()
		delete(o.faces, k)
	}
	return nil
}
