package layout

// 该文件定义文本控件、基础样式与布局结果，供布局计算、合成与调试 JSON 共用。

import (
	"image"
	"image/color"
)

// NoCursor 表示不绘制光标。
const NoCursor = -1

// CursorWidth 是光标竖条的像素宽度。
const CursorWidth = 2

// Align 是行的水平对齐方式，只允许 AlignLeft/AlignCenter/AlignRight。
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "invalid"
	}
}

// Font 描述一个字体面。Size 以像素为单位。
// Font 必须保持可比较，字形缓存以它为键的一部分。
type Font struct {
	Name  string  `json:"name"`
	Src   string  `json:"src"`   // builtin:<name>、embed:<name> 或文件路径
	Style string  `json:"style"` // regular/bold/italic 等
	Size  float64 `json:"size"`
}

// Style 是文档的基础样式。渲染期间的样式变更只作用于本次调用的覆盖状态，不会写回 Style。
type Style struct {
	Font        Font        `json:"font"`
	Color       color.NRGBA `json:"color"`
	Antialias   bool        `json:"antialias"`
	LineSpacing int         `json:"lineSpacing"`
}

// Text 是一个多行文本控件的可渲染状态。
type Text struct {
	Content string
	Style   Style
	Changes []StyleChange
	Align   Align
	Width   int
	Height  int
	// Fixed 为 true 时画布高度至少为 Height（固定尺寸容器）。
	Fixed bool
	// Cursor 为逻辑偏移（按字符计，换行计 1），NoCursor 表示不绘制。
	Cursor int
}

// NewText 以默认参数创建控件：左对齐、行距 1、开启抗锯齿、无光标。
func NewText(content string, width, height int, font Font) *Text {
	return &Text{
		Content: content,
		Style: Style{
			Font:        font,
			Color:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
			Antialias:   true,
			LineSpacing: 1,
		},
		Align:  AlignLeft,
		Width:  width,
		Height: height,
		Cursor: NoCursor,
	}
}

// SetText 替换控件内容。
func (t *Text) SetText(content string) {
	t.Content = content
}

// GlyphSize 是单个字形渲染后的像素尺寸。
type GlyphSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LineBox 记录一行渲染后的几何信息。Y 为画布中的行顶部，X 为对齐偏移。
type LineBox struct {
	Start  int `json:"start"`
	Length int `json:"length"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	image *image.NRGBA
}

// Cursor 是解析后的光标位置，X 为未加对齐偏移的行内坐标。
type Cursor struct {
	Line   int         `json:"line"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Height int         `json:"height"`
	Color  color.NRGBA `json:"color"`
}

// Result 保存一次渲染的输出。
type Result struct {
	Canvas      *image.NRGBA `json:"-"`
	Width       int          `json:"width"`
	TotalHeight int          `json:"totalHeight"`
	HalfHeight  int          `json:"halfHeight"`
	Align       string       `json:"align"`
	Lines       []LineBox    `json:"lines"`
	Cursor      *Cursor      `json:"cursor,omitempty"`
}

// Extra 返回供外部居中使用的辅助高度信息。
func (r *Result) Extra() map[string]int {
	if r == nil {
		return map[string]int{"TH": 0, "HTH": 0}
	}
	return map[string]int{"TH": r.TotalHeight, "HTH": r.HalfHeight}
}
