package layout

import (
	"fmt"
	"image/color"
	"sort"
)

// Kind 是样式变更的类型。
type Kind int

const (
	KindAntialias Kind = iota + 1
	KindLineSpacing
	KindColor
)

func (k Kind) String() string {
	switch k {
	case KindAntialias:
		return "antialias"
	case KindLineSpacing:
		return "spacing"
	case KindColor:
		return "color"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// StyleChange 在文档偏移 Pos 处修改一项样式，只有与 Kind 对应的字段有效。
type StyleChange struct {
	Pos       int         `json:"pos"`
	Kind      Kind        `json:"kind"`
	Antialias bool        `json:"antialias,omitempty"`
	Spacing   int         `json:"spacing,omitempty"`
	Color     color.NRGBA `json:"color,omitempty"`
}

// AntialiasAt 创建一个抗锯齿开关变更。
func AntialiasAt(pos int, on bool) StyleChange {
	return StyleChange{Pos: pos, Kind: KindAntialias, Antialias: on}
}

// SpacingAt 创建一个行距变更。
func SpacingAt(pos, spacing int) StyleChange {
	return StyleChange{Pos: pos, Kind: KindLineSpacing, Spacing: spacing}
}

// ColorAt 创建一个颜色变更。
func ColorAt(pos int, c color.NRGBA) StyleChange {
	return StyleChange{Pos: pos, Kind: KindColor, Color: c}
}

// Validate 检查变更类型是否受支持。
func (c StyleChange) Validate() error {
	switch c.Kind {
	case KindAntialias, KindLineSpacing, KindColor:
		return nil
	default:
		return fmt.Errorf("%w: %s（位置 %d）", ErrUnsupportedStyleKind, c.Kind, c.Pos)
	}
}

// overlay 是一次渲染调用内的样式副本，按值从 Style 构造，调用结束即丢弃。
type overlay struct {
	antialias bool
	spacing   int
	color     color.NRGBA
	font      Font
}

func newOverlay(base Style) overlay {
	return overlay{
		antialias: base.Antialias,
		spacing:   base.LineSpacing,
		color:     base.Color,
		font:      base.Font,
	}
}

func (o *overlay) apply(c StyleChange) error {
	switch c.Kind {
	case KindAntialias:
		o.antialias = c.Antialias
	case KindLineSpacing:
		o.spacing = c.Spacing
	case KindColor:
		o.color = c.Color
	default:
		return c.Validate()
	}
	return nil
}

// sortChanges 返回按位置升序的副本；同一位置保持提交顺序。
func sortChanges(changes []StyleChange) []StyleChange {
	out := make([]StyleChange, len(changes))
	copy(out, changes)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}

// window 从已排序的变更中选出 start <= Pos <= end 的部分。
func window(sorted []StyleChange, start, end int) []StyleChange {
	lo := sort.Search(len(sorted), func(i int) bool { return sorted[i].Pos >= start })
	hi := sort.Search(len(sorted), func(i int) bool { return sorted[i].Pos > end })
	if lo >= hi {
		return nil
	}
	return sorted[lo:hi]
}
