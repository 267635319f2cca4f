package layout

import (
	"fmt"
	"image"
	"image/draw"
)

// alignOffset 计算行在声明宽度内的水平偏移。
func alignOffset(a Align, width, lineWidth int) (int, error) {
	switch a {
	case AlignLeft:
		return 0, nil
	case AlignCenter:
		return (width - lineWidth) / 2, nil
	case AlignRight:
		return width - lineWidth, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidAlignment, int(a))
	}
}

// compose 分配透明画布，按对齐偏移贴入各行，并绘制光标竖条。
func compose(t *Text, lay *docLayout) (*Result, error) {
	height := lay.total
	if t.Fixed && t.Height > height {
		height = t.Height
	}
	canvas := Blank(t.Width, height)

	for i := range lay.lines {
		ln := &lay.lines[i]
		x, err := alignOffset(t.Align, t.Width, ln.Width)
		if err != nil {
			return nil, err
		}
		ln.X = x
		// 负行距时相邻行会重叠，按 alpha 叠加而不是覆盖。
		b := ln.image.Bounds()
		draw.Draw(canvas, b.Sub(b.Min).Add(image.Pt(ln.X, ln.Y)), ln.image, b.Min, draw.Over)
	}

	if cur := lay.cursor; cur != nil {
		x := cur.X + lay.lines[cur.Line].X
		bar := image.Rect(x, cur.Y, x+CursorWidth, cur.Y+cur.Height).Intersect(canvas.Bounds())
		if !bar.Empty() {
			draw.Draw(canvas, bar, &image.Uniform{C: cur.Color}, image.Point{}, draw.Src)
		}
	}

	return &Result{
		Canvas:      canvas,
		Width:       t.Width,
		TotalHeight: lay.total,
		HalfHeight:  lay.total / 2,
		Align:       t.Align.String(),
		Lines:       lay.lines,
		Cursor:      lay.cursor,
	}, nil
}
