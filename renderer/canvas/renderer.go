package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/bmp"

	"github.com/ByLCY/inkline/fonts"
	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/renderer"
)

// Format selects the encoding produced by Render.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
	FormatPDF Format = "pdf"
)

// FormatFromPath picks a Format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP
	case ".pdf":
		return FormatPDF
	default:
		return FormatPNG
	}
}

// Renderer rasterizes text runs and encodes composed canvases via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string
	dpi     float64
	format  Format

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*fontFamilyEntry
	fallbackFamily *canvas.FontFamily
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Rasterizer = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	style  canvas.FontStyle
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	DPI     float64             // defaults to layout.DefaultDPI
	Format  Format              // defaults to FormatPNG
	Fonts   map[string]Resource // built-in fonts accessible via builtin:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		dpi:          opts.DPI,
		format:       opts.Format,
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
	if r.dpi <= 0 {
		r.dpi = layout.DefaultDPI
	}
	if r.format == "" {
		r.format = FormatPNG
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// DPI returns the resolution used to convert font sizes to pixels.
func (r *Renderer) DPI() float64 { return r.dpi }

// dpmm 返回每毫米像素数；canvas 内部以 mm 为单位。
func (r *Renderer) dpmm() float64 { return r.dpi / 25.4 }

// Rasterize implements layout.Rasterizer. The returned bitmap is exactly
// (ceil(advance), ceil(lineHeight)) pixels; an empty string yields a zero-width bitmap of line height.
func (r *Renderer) Rasterize(font layout.Font, text string, antialias bool, col color.NRGBA) (*image.NRGBA, error) {
	face, err := r.fontFace(font, col)
	if err != nil {
		return nil, err
	}
	dpmm := r.dpmm()
	metrics := face.Metrics()
	height := int(math.Ceil(metrics.LineHeight * dpmm))
	width := int(math.Ceil(face.TextWidth(text) * dpmm))
	if text == "" || width <= 0 {
		return layout.Blank(0, height), nil
	}

	c := canvas.New(float64(width)/dpmm, float64(height)/dpmm)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点
	// 基线位置：行顶部加上字体上升部（Ascent）
	ctx.DrawText(0, metrics.Ascent, canvas.NewTextLine(face, text, canvas.Left))

	drawn := rasterizer.Draw(c, canvas.DPMM(dpmm), canvas.DefaultColorSpace)
	out := imaging.Paste(layout.Blank(width, height), drawn, image.Pt(0, 0))
	if !antialias {
		binarize(out, col)
	}
	return out, nil
}

// binarize 关闭抗锯齿：alpha 过半的像素取实色，其余完全透明。
func binarize(img *image.NRGBA, col color.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if img.Pix[i+3] >= 0x80 {
			img.Pix[i+0] = col.R
			img.Pix[i+1] = col.G
			img.Pix[i+2] = col.B
			img.Pix[i+3] = col.A
			continue
		}
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
	}
}

// Render encodes the composed canvas in the configured format.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil || result.Canvas == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	img := encodable(result.Canvas)

	var buf bytes.Buffer
	switch r.format {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	case FormatBMP:
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 BMP 失败: %w", err)
		}
	case FormatPDF:
		dpmm := r.dpmm()
		w := float64(img.Bounds().Dx()) / dpmm
		h := float64(img.Bounds().Dy()) / dpmm
		writer := pdf.New(&buf, w, h, nil)
		c := canvas.New(w, h)
		ctx := canvas.NewContext(c)
		ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", r.format)
	}
	return buf.Bytes(), nil
}

// encodable 将零面积画布替换为 1x1 的透明图，编码器不接受空图。
func encodable(img *image.NRGBA) *image.NRGBA {
	if img.Bounds().Empty() {
		return layout.Blank(1, 1)
	}
	return img
}

func (r *Renderer) fontFace(font layout.Font, col color.NRGBA) (*canvas.FontFace, error) {
	family, style, err := r.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	size := font.Size
	if size <= 0 {
		size = 16
	}
	// Font.Size 为像素，字体面需要 pt。
	sizePt := size * 72 / r.dpi
	return family.Face(sizePt, col, style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(font layout.Font) (*canvas.FontFamily, canvas.FontStyle, error) {
	key := fontCacheKey(font)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry.family, entry.style, nil
	}

	style := parseFontStyle(font.Style)
	familyName := font.Name
	if familyName == "" {
		familyName = "Body"
	}
	family := canvas.NewFontFamily(familyName)

	if err := r.loadFontIntoFamily(family, font, style); err != nil {
		fallback, fbStyle, fbErr := r.fallback()
		if fbErr != nil {
			return nil, canvas.FontRegular, err
		}
		r.fontFamilies[key] = &fontFamilyEntry{family: fallback, style: fbStyle}
		return fallback, fbStyle, nil
	}

	entry := &fontFamilyEntry{family: family, style: style}
	r.fontFamilies[key] = entry
	return family, style, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily, font layout.Font, style canvas.FontStyle) error {
	data, err := r.loadFontBytes(font)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, style)
}

func (r *Renderer) loadFontBytes(font layout.Font) ([]byte, error) {
	src := font.Src
	if src == "" {
		return fonts.Load(fonts.Default)
	}
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		// 未注入时回落到同名的内置 Go 字体
		return fonts.Load(name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 builtin: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, canvas.FontStyle, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, canvas.FontRegular, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, canvas.FontRegular, err
	}
	family := canvas.NewFontFamily("inkline-fallback")
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, canvas.FontRegular, err
	}
	r.fallbackFamily = family
	return family, canvas.FontRegular, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(strings.TrimSpace(style))
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func fontCacheKey(font layout.Font) string {
	return fmt.Sprintf("%s|%s|%s", font.Name, font.Src, font.Style)
}
