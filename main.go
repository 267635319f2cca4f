package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/inkline/cache"
	"github.com/ByLCY/inkline/dsl"
	"github.com/ByLCY/inkline/layout"
	"github.com/ByLCY/inkline/renderer"
	canvasrenderer "github.com/ByLCY/inkline/renderer/canvas"
)

func main() {
	input := flag.String("in", "examples/label.ink", "DSL 文件路径")
	output := flag.String("out", "output/label.png", "输出路径（.png/.bmp/.pdf）")
	block := flag.String("block", "", "要渲染的 text 段落名，默认第一个")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到 DSL 的 JSON 数据")
	dpi := flag.Float64("dpi", layout.DefaultDPI, "渲染分辨率")
	capacity := flag.Int("cache", cache.DefaultCapacity, "字形度量缓存容量")
	flag.Parse()

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: filepath.Dir(*input),
		DPI:     *dpi,
		Format:  canvasrenderer.FormatFromPath(*output),
	})
	cfg := config{
		inputPath:  *input,
		outputPath: *output,
		debugPath:  *debug,
		block:      *block,
		dpi:        *dpi,
		data:       inputData,
	}
	res, err := run(cfg, r, r, cache.NewGlyphs(r, *capacity))
	if err != nil {
		log.Fatalf("渲染文本失败: %v", err)
	}
	fmt.Printf("已生成图像：%s（%dx%d，TH=%d）\n", *output, res.Width, res.Canvas.Bounds().Dy(), res.TotalHeight)
}

type config struct {
	inputPath  string
	outputPath string
	debugPath  string
	block      string
	dpi        float64
	data       any
}

// run 串联解析、构建、布局与编码。
func run(cfg config, rast layout.Rasterizer, enc renderer.Renderer, metrics layout.GlyphMetrics) (*layout.Result, error) {
	if rast == nil || enc == nil || metrics == nil {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(cfg.inputPath)
	if err != nil {
		return nil, fmt.Errorf("无法打开 DSL 文件 %s: %w", cfg.inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("解析 DSL 失败: %w", err)
	}

	widgets, err := layout.Build(doc, cfg.data, layout.BuildOptions{DPI: cfg.dpi})
	if err != nil {
		return nil, fmt.Errorf("构建控件失败: %w", err)
	}
	text, err := pick(widgets, cfg.block)
	if err != nil {
		return nil, err
	}

	result, err := text.Render(layout.RenderOptions{Rasterizer: rast, Metrics: metrics})
	if err != nil {
		return nil, fmt.Errorf("布局计算失败: %w", err)
	}

	if cfg.debugPath != "" {
		if err := writeDebug(result, cfg.debugPath); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("创建输出目录失败: %w", err)
	}
	data, err := enc.Render(result)
	if err != nil {
		return nil, fmt.Errorf("编码图像失败: %w", err)
	}
	if err := os.WriteFile(cfg.outputPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("写入输出文件失败: %w", err)
	}
	return result, nil
}

func pick(widgets []layout.Widget, name string) (*layout.Text, error) {
	if name == "" && len(widgets) > 0 {
		return widgets[0].Text, nil
	}
	for _, w := range widgets {
		if w.Name == name {
			return w.Text, nil
		}
	}
	return nil, fmt.Errorf("找不到 text 段落 %q", name)
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
