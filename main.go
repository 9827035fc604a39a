package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/vita/config"
	"github.com/ByLCY/vita/fonts"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/output"
	"github.com/ByLCY/vita/pipeline"
	"github.com/ByLCY/vita/resume"
	"github.com/ByLCY/vita/server"
)

func main() {
	cfg := config.Load()
	input := flag.String("in", "resume.json", "简历 JSON 文件路径")
	outDir := flag.String("out-dir", cfg.OutputDir, "PDF 输出目录")
	flag.StringVar(&cfg.Backend, "backend", cfg.Backend, "绘制后端：canvas 或 fpdf")
	flag.StringVar(&cfg.Font, "font", cfg.Font, fontUsage())
	flag.StringVar(&cfg.PageSize, "page", cfg.PageSize, "纸张尺寸：A4、A5、Letter、Legal")
	flag.BoolVar(&cfg.Landscape, "landscape", cfg.Landscape, "横向纸张")
	flag.StringVar(&cfg.Margin, "margin", cfg.Margin, "页边距，按 CSS 语义给出 1~4 个长度，例如 \"10mm 10mm 20mm\"")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径（仅 canvas 后端）")
	verbose := flag.Bool("v", false, "输出调试日志")
	serve := flag.String("serve", "", "以 HTTP 服务方式运行并监听该地址，例如 :8080")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *serve != "" {
		cfg.Addr = *serve
		if err := listen(cfg, logger); err != nil {
			log.Fatalf("HTTP 服务退出: %v", err)
		}
		return
	}

	cfg.OutputDir = *outDir
	path, err := run(*input, *debug, cfg, logger)
	switch {
	case errors.Is(err, output.ErrTargetLocked):
		// 目标 PDF 正被其他程序占用：提示后正常退出
		logger.Warn("输出文件被占用，请关闭正在打开它的程序后重试", "dir", cfg.OutputDir, "err", err)
		return
	case err != nil:
		log.Fatalf("生成 PDF 失败: %v", err)
	}
	fmt.Printf("已生成 PDF：%s\n", path)
}

// run 串联加载、渲染与写盘，返回最终的 PDF 路径。
// fontUsage 生成 -font 的帮助文本，列出全部内置字体。
func fontUsage() string {
	return "正文字体（内置 " + strings.Join(fonts.Names(), "、") + "，fpdf 后端也可用 Helvetica 等核心字体）"
}

func run(inputPath, debugPath string, cfg config.Config, logger *slog.Logger) (string, error) {
	page, err := cfg.Page()
	if err != nil {
		return "", err
	}
	rec, err := resume.Load(inputPath)
	if err != nil {
		return "", err
	}
	doc, err := pipeline.Run(rec, pipeline.Options{
		Backend:         cfg.Backend,
		Font:            cfg.Font,
		Page:            page,
		ContactTemplate: cfg.ContactTemplate,
		FontDir:         filepath.Dir(inputPath),
		Logger:          logger,
	})
	if err != nil {
		return "", err
	}

	if debugPath != "" {
		if doc.Result == nil {
			logger.Warn("当前后端没有中间布局结果，跳过调试输出", "backend", cfg.Backend)
		} else if err := layout.WriteDebugJSON(doc.Result, debugPath); err != nil {
			return "", fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	return output.Write(cfg.OutputDir, doc.Name, doc.PDF)
}

func listen(cfg config.Config, logger *slog.Logger) error {
	app, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("HTTP 服务启动", "addr", cfg.Addr, "backend", cfg.Backend)
	return app.Listen(cfg.Addr)
}
