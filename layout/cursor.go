package layout

// LocateCursor 解析光标在画布中的像素位置（未加对齐偏移），不合成画布。
// 未请求光标或内容为空时返回 nil。
//
// 放置规则：
//   - 光标恰好位于某行起点：(0, 行顶部)，高度为该行高度；
//   - 光标位于行内或行尾：横坐标为其前各字符缓存宽度之和，抗锯齿取该行开始时的设置；
//   - 光标超出文档：位于最后一行末尾，纵坐标为总高度减去 '|' 的高度。
func LocateCursor(t *Text, opts RenderOptions) (*Cursor, error) {
	if t.Cursor < 0 {
		return nil, nil
	}
	if err := t.validate(opts); err != nil {
		return nil, err
	}
	lay, err := t.layout(opts)
	if err != nil {
		return nil, err
	}
	return lay.cursor, nil
}
