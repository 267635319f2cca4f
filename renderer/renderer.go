package renderer

import "github.com/ByLCY/inkline/layout"

// Renderer 将合成后的画布编码为最终文件，例如 PNG、BMP 或 PDF。
// Render 返回编码后的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *layout.Result) ([]byte, error)
}
