package layout

import (
	"image"
	"image/color"
)

// RenderOptions 配置渲染阶段所需的外部依赖。
type RenderOptions struct {
	Rasterizer Rasterizer
	Metrics    GlyphMetrics
}

// Rasterizer 负责把一段文本按给定字体、抗锯齿开关与颜色栅格化为透明背景的位图。
// 空字符串应返回宽度为 0、高度为字体行高的位图。
type Rasterizer interface {
	Rasterize(font Font, text string, antialias bool, col color.NRGBA) (*image.NRGBA, error)
}

// GlyphMetrics 返回单个字符渲染后的尺寸，通常由定长 LRU 缓存实现。
type GlyphMetrics interface {
	Glyph(font Font, ch rune, antialias bool) (GlyphSize, error)
}
