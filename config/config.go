// Package config 从 VITA_* 环境变量读取运行配置，未设置的项使用默认值。
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ByLCY/vita/layout"
)

const (
	BackendCanvas = "canvas"
	BackendFPDF   = "fpdf"
)

// Config 汇总 CLI 与 HTTP 服务共用的配置。
type Config struct {
	Backend         string
	Font            string
	PageSize        string
	Landscape       bool
	Margin          string
	OutputDir       string
	Addr            string
	ContactTemplate string
}

// Load 读取环境变量。命令行参数在此基础上覆盖。
func Load() Config {
	return Config{
		Backend:         normalizeBackend(getEnv("VITA_BACKEND", BackendCanvas)),
		Font:            getEnv("VITA_FONT", ""),
		PageSize:        getEnv("VITA_PAGE_SIZE", "A4"),
		Landscape:       parseBool(getEnv("VITA_LANDSCAPE", "")),
		Margin:          getEnv("VITA_MARGIN", ""),
		OutputDir:       getEnv("VITA_OUTPUT_DIR", "output"),
		Addr:            getEnv("VITA_ADDR", ":8080"),
		ContactTemplate: getEnv("VITA_CONTACT_TEMPLATE", ""),
	}
}

// Page 解析纸张尺寸与边距；Margin 为空时使用 layout.DefaultMargin。
func (c Config) Page() (layout.Options, error) {
	pageSize := c.PageSize
	if pageSize == "" {
		pageSize = "A4"
	}
	w, h, err := layout.PageSize(pageSize, c.Landscape)
	if err != nil {
		return layout.Options{}, fmt.Errorf("config: %w", err)
	}
	margin := layout.DefaultMargin
	if strings.TrimSpace(c.Margin) != "" {
		if margin, err = layout.ParseMargin(c.Margin); err != nil {
			return layout.Options{}, fmt.Errorf("config: %w", err)
		}
	}
	return layout.Options{Width: w, Height: h, Margin: margin}, nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func normalizeBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case BackendFPDF:
		return BackendFPDF
	default:
		return BackendCanvas
	}
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
