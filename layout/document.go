package layout

import (
	"fmt"
	"strings"
)

// docLayout 是一次布局计算的中间结果，行位图尚未按对齐方式合成。
type docLayout struct {
	lines  []LineBox
	total  int
	cursor *Cursor
}

// Render 按当前内容、基础样式与样式变更渲染控件。
// 样式变更只作用于本次调用内的覆盖状态，t.Style 在调用前后保持不变。
func (t *Text) Render(opts RenderOptions) (*Result, error) {
	if err := t.validate(opts); err != nil {
		return nil, err
	}
	lay, err := t.layout(opts)
	if err != nil {
		return nil, err
	}
	return compose(t, lay)
}

func (t *Text) validate(opts RenderOptions) error {
	if opts.Rasterizer == nil {
		return fmt.Errorf("layout: 缺少栅格化后端 Rasterizer")
	}
	if opts.Metrics == nil {
		return fmt.Errorf("layout: 缺少字形度量 GlyphMetrics")
	}
	if _, err := alignOffset(t.Align, t.Width, 0); err != nil {
		return err
	}
	for _, c := range t.Changes {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// layout 逐行调用分段器、纵向堆叠行位图，并解析光标的像素位置。
func (t *Text) layout(opts RenderOptions) (*docLayout, error) {
	out := &docLayout{}
	if t.Content == "" {
		return out, nil
	}

	ov := newOverlay(t.Style)
	sorted := sortChanges(t.Changes)
	hasCursor := t.Cursor >= 0

	var (
		y      int
		offset int
		cur    *Cursor
	)
	for lnc, text := range strings.Split(t.Content, "\n") {
		line := []rune(text)
		start := offset
		// 行内光标宽度使用本行开始时的抗锯齿设置。
		antialias := ov.antialias
		atStart := hasCursor && cur == nil && t.Cursor == start

		img, err := renderLine(opts.Rasterizer, &ov, line, start, window(sorted, start, start+len(line)))
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", lnc+1, err)
		}
		width, height := img.Bounds().Dx(), img.Bounds().Dy()
		offset += len(line) + 1

		switch {
		case atStart:
			cur = &Cursor{Line: lnc, X: 0, Y: y, Height: height}
		case hasCursor && cur == nil && start < t.Cursor && t.Cursor < offset:
			x, err := t.columnX(opts.Metrics, line[:t.Cursor-start], antialias)
			if err != nil {
				return nil, err
			}
			cur = &Cursor{Line: lnc, X: x, Y: y, Height: height}
		}

		out.lines = append(out.lines, LineBox{
			Start:  start,
			Length: len(line),
			Y:      y,
			Width:  width,
			Height: height,
			image:  img,
		})
		// 行距取本行变更应用之后的值。
		y += height + ov.spacing
	}

	out.total = max(y-ov.spacing, 0)

	if hasCursor && cur == nil {
		last := out.lines[len(out.lines)-1]
		bar, err := opts.Metrics.Glyph(t.Style.Font, '|', ov.antialias)
		if err != nil {
			return nil, fmt.Errorf("测量光标高度失败: %w", err)
		}
		cur = &Cursor{
			Line:   len(out.lines) - 1,
			X:      last.Width,
			Y:      out.total - bar.Height,
			Height: bar.Height,
		}
	}
	if cur != nil {
		cur.Color = t.Style.Color
		if n := len(sorted); n > 0 && sorted[n-1].Kind == KindColor {
			cur.Color = sorted[n-1].Color
		}
	}
	out.cursor = cur
	return out, nil
}

// columnX 累加光标之前各字符的缓存宽度，字体取基础样式。
func (t *Text) columnX(metrics GlyphMetrics, prefix []rune, antialias bool) (int, error) {
	x := 0
	for _, ch := range prefix {
		g, err := metrics.Glyph(t.Style.Font, ch, antialias)
		if err != nil {
			return 0, fmt.Errorf("测量字符 %q 失败: %w", ch, err)
		}
		x += g.Width
	}
	return x, nil
}
