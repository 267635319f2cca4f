package layout

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"unicode/utf8"
)

// stubRasterizer 是测试用的等宽栅格化器：每个字符 glyphW 像素宽，行高 lineH，整段以颜色实心填充。
// 仅用于测试，避免引入 renderer 造成循环依赖。
type stubRasterizer struct {
	glyphW int
	lineH  int
	failOn string
	calls  []stubCall
}

type stubCall struct {
	Text      string
	Antialias bool
	Color     color.NRGBA
}

var errInvalidGlyph = errors.New("invalid glyph")

func newStub() *stubRasterizer { return &stubRasterizer{glyphW: 8, lineH: 16} }

func (s *stubRasterizer) Rasterize(font Font, text string, antialias bool, col color.NRGBA) (*image.NRGBA, error) {
	s.calls = append(s.calls, stubCall{Text: text, Antialias: antialias, Color: col})
	if s.failOn != "" && strings.Contains(text, s.failOn) {
		return nil, errInvalidGlyph
	}
	w := utf8.RuneCountInString(text) * s.glyphW
	img := Blank(w, s.lineH)
	if w > 0 {
		draw.Draw(img, img.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
	}
	return img, nil
}

// stubMetrics 返回固定字形尺寸，并记录每次查询使用的抗锯齿设置。
type stubMetrics struct {
	size  GlyphSize
	calls []bool
}

func (m *stubMetrics) Glyph(font Font, ch rune, antialias bool) (GlyphSize, error) {
	m.calls = append(m.calls, antialias)
	return m.size, nil
}

var (
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red         = color.NRGBA{R: 255, A: 255}
	blue        = color.NRGBA{B: 255, A: 255}
	transparent = color.NRGBA{}
)

func newTestText(content string) *Text {
	return NewText(content, 200, 100, Font{Name: "stub", Size: 16})
}

func testOptions() (RenderOptions, *stubRasterizer, *stubMetrics) {
	rast := newStub()
	metrics := &stubMetrics{size: GlyphSize{Width: rast.glyphW, Height: rast.lineH}}
	return RenderOptions{Rasterizer: rast, Metrics: metrics}, rast, metrics
}
