package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa 形式的颜色。
func ParseColor(value string) (color.NRGBA, error) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	alpha := uint8(0xff)
	if len(v) == 9 {
		a, err := strconv.ParseUint(v[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
		}
		alpha = uint8(a)
		v = v[:7]
	}
	if len(v) != 4 && len(v) != 7 {
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 长度无效", value)
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
