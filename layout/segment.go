package layout

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// run 是一行中样式不变的一段文字；change 在该段栅格化之后应用。
type run struct {
	text   []rune
	change *StyleChange
}

// Blank 返回指定尺寸、完全透明且支持逐像素 alpha 的画布。
func Blank(width, height int) *image.NRGBA {
	if width <= 0 || height <= 0 {
		// 零宽位图仍保留高度，空段依赖它传递行高。
		return image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	}
	return imaging.New(width, height, color.NRGBA{})
}

// splitRuns 按样式变更位置把一行切成若干段。
// changes 必须已排序且都落在 [start, start+len(line)] 内；同一位置的多个变更各自闭合一段（可能为空）。
func splitRuns(line []rune, start int, changes []StyleChange) []run {
	var runs []run
	tokStart := 0
	pending := changes
	closeAt := func(j int) {
		for len(pending) > 0 && pending[0].Pos == start+j {
			runs = append(runs, run{text: line[tokStart:j], change: &pending[0]})
			pending = pending[1:]
			tokStart = j
		}
	}
	for j := range line {
		closeAt(j)
	}
	// 行尾的变更在整行栅格化之后生效，影响后续行与行距。
	closeAt(len(line))
	if tokStart < len(line) {
		runs = append(runs, run{text: line[tokStart:]})
	}
	if len(runs) == 0 {
		// 空行也渲染一个空段，保留字体行高。
		runs = append(runs, run{})
	}
	return runs
}

// renderLine 栅格化一行：每段使用开段时的覆盖状态，段后应用其变更，最后从左到右拼接。
func renderLine(rast Rasterizer, ov *overlay, line []rune, start int, changes []StyleChange) (*image.NRGBA, error) {
	runs := splitRuns(line, start, changes)

	imgs := make([]*image.NRGBA, 0, len(runs))
	totalWidth, maxHeight := 0, 0
	for _, r := range runs {
		img, err := rast.Rasterize(ov.font, string(r.text), ov.antialias, ov.color)
		if err != nil {
			return nil, fmt.Errorf("栅格化文本 %q 失败: %w", string(r.text), err)
		}
		if img == nil {
			img = Blank(0, 0)
		}
		b := img.Bounds()
		totalWidth += b.Dx()
		maxHeight = max(maxHeight, b.Dy())
		imgs = append(imgs, img)

		if r.change != nil {
			if err := ov.apply(*r.change); err != nil {
				return nil, err
			}
		}
	}

	final := Blank(totalWidth, maxHeight)
	x := 0
	for _, img := range imgs {
		if !img.Bounds().Empty() {
			final = imaging.Paste(final, img, image.Pt(x, 0))
		}
		x += img.Bounds().Dx()
	}
	return final, nil
}
