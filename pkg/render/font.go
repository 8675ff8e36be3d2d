package render

import (
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// baseFontSize 缩放为 1 时的字号
const baseFontSize = 12.0

var (
	fontOnce sync.Once
	hudFont  *opentype.Font
)

// newFace 创建 HUD 字体
// opentype.Face 不能并发使用，每帧单独创建；解析失败时退回位图字体
func newFace(scale float64) font.Face {
	fontOnce.Do(func() {
		tt, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("[Render] Failed to parse font: %v", err)
			return
		}
		hudFont = tt
	})
	if hudFont == nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(hudFont, &opentype.FaceOptions{
		Size:    baseFontSize * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("[Render] Failed to create font face: %v", err)
		return basicfont.Face7x13
	}
	return face
}
