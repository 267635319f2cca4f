package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/inkline/binding"
	"github.com/ByLCY/inkline/dsl"
)

// DefaultFont 是 DSL 未指定字体时使用的内置字体。
var DefaultFont = Font{Name: "Go", Src: "builtin:goregular", Size: 16}

// BuildOptions 配置 DSL 到控件的转换。
type BuildOptions struct {
	DPI float64 // 长度单位换算为像素时使用，默认 DefaultDPI
}

// Widget 是 DSL 中声明的一个具名文本控件。
type Widget struct {
	Name string
	Text *Text
}

// Build 根据 DSL AST 生成文本控件。data 非空时先对 content 做 ${...} 插值，
// 样式变更位置与光标按模板偏移编写，插值后自动换算。
func Build(doc *dsl.Document, data any, opts BuildOptions) ([]Widget, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if len(doc.Blocks) == 0 {
		return nil, fmt.Errorf("文档中缺少 text 段落")
	}
	widgets := make([]Widget, 0, len(doc.Blocks))
	for _, block := range doc.Blocks {
		t, err := buildText(block, data, opts)
		if err != nil {
			if block.Name != "" {
				return nil, fmt.Errorf("text %s: %w", block.Name, err)
			}
			return nil, err
		}
		widgets = append(widgets, Widget{Name: block.Name, Text: t})
	}
	return widgets, nil
}

func buildText(block *dsl.TextBlock, data any, opts BuildOptions) (*Text, error) {
	t := NewText("", 500, 500, DefaultFont)
	dpi := opts.DPI

	for _, st := range block.Statements {
		a := st.Assignment
		if a == nil {
			continue
		}
		raw := a.Value.Raw()
		var err error
		switch strings.ToLower(a.Key) {
		case "content":
			t.Content = raw
		case "width":
			t.Width = ParseRawLengthStr(raw).PixelsInt(dpi)
		case "height":
			t.Height = ParseRawLengthStr(raw).PixelsInt(dpi)
		case "fixed":
			t.Fixed, err = parseBool(raw)
		case "align":
			t.Align, err = ParseAlign(raw)
		case "spacing", "linespacing":
			t.Style.LineSpacing = ParseRawLengthStr(raw).PixelsInt(dpi)
		case "color":
			t.Style.Color, err = ParseColor(raw)
		case "antialias", "aa":
			t.Style.Antialias, err = parseBool(raw)
		case "font":
			t.Style.Font.Src = raw
			t.Style.Font.Name = fontName(raw)
		case "family":
			t.Style.Font.Name = raw
		case "style":
			t.Style.Font.Style = raw
		case "size":
			t.Style.Font.Size = ParseRawLengthStr(raw).Pixels(dpi)
		case "cursor":
			t.Cursor, err = parseCursor(raw)
		default:
			err = fmt.Errorf("未知属性 %q", a.Key)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", a.Pos, a.Key, err)
		}
	}

	for _, st := range block.Statements {
		if st.Change == nil {
			continue
		}
		c, err := parseChange(st.Change, dpi)
		if err != nil {
			return nil, err
		}
		t.Changes = append(t.Changes, c)
	}

	content, offsets := binding.InterpolateMapped(t.Content, data)
	t.Content = content
	for i := range t.Changes {
		t.Changes[i].Pos = offsets.Map(t.Changes[i].Pos)
	}
	if t.Cursor >= 0 {
		t.Cursor = offsets.Map(t.Cursor)
	}
	return t, nil
}

func parseChange(c *dsl.Change, dpi float64) (StyleChange, error) {
	pos, err := c.Offset()
	if err != nil {
		return StyleChange{}, err
	}
	raw := c.Value.Raw()
	var out StyleChange
	switch strings.ToLower(c.Kind) {
	case "antialias", "aa":
		on, perr := parseBool(raw)
		out, err = AntialiasAt(pos, on), perr
	case "spacing", "linespacing":
		out = SpacingAt(pos, ParseRawLengthStr(raw).PixelsInt(dpi))
	case "color", "colour":
		col, perr := ParseColor(raw)
		out, err = ColorAt(pos, col), perr
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedStyleKind, c.Kind)
	}
	if err != nil {
		return StyleChange{}, fmt.Errorf("%s: at %d %s: %w", c.Pos, pos, c.Kind, err)
	}
	return out, nil
}

// ParseAlign 解析 left/center/right（大小写不敏感）。
func ParseAlign(value string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "left", "start":
		return AlignLeft, nil
	case "center", "centre", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	default:
		return AlignLeft, fmt.Errorf("%w: %q", ErrInvalidAlignment, value)
	}
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	return strconv.ParseBool(value)
}

func parseCursor(value string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "none" || v == "" {
		return NoCursor, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return NoCursor, fmt.Errorf("光标位置 %q 不是整数", value)
	}
	if n < 0 {
		return NoCursor, nil
	}
	return n, nil
}

// fontName 从字体来源推导字体族名，例如 "builtin:gomono" -> "gomono"。
func fontName(src string) string {
	name := src
	if i := strings.LastIndexAny(name, ":/\\"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".ttf")
}
