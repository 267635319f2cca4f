package layout

import "errors"

var (
	// ErrUnsupportedStyleKind 表示样式变更的类型不在 {抗锯齿, 行距, 颜色} 之内。
	ErrUnsupportedStyleKind = errors.New("layout: 不支持的样式变更类型")
	// ErrInvalidAlignment 表示对齐方式不在 {left, center, right} 之内。
	ErrInvalidAlignment = errors.New("layout: 无效的对齐方式")
)
