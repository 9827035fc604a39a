// Package server 以 HTTP 方式提供简历渲染：POST /render 接收 JSON 记录并返回 PDF。
package server

import (
	"errors"
	"log/slog"
	"mime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ByLCY/vita/config"
	"github.com/ByLCY/vita/layout"
	"github.com/ByLCY/vita/pipeline"
	"github.com/ByLCY/vita/resume"
)

const (
	headerRequestID = "X-Request-Id"
	requestIDKey    = "requestId"
)

type handler struct {
	cfg    config.Config
	page   layout.Options
	logger *slog.Logger
}

// New 创建 fiber 应用。cfg 中的纸张与边距在此解析，非法时返回错误。
func New(cfg config.Config, logger *slog.Logger) (*fiber.App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	page, err := cfg.Page()
	if err != nil {
		return nil, err
	}
	if cfg.Backend == "" {
		cfg.Backend = config.BackendCanvas
	}
	h := &handler{cfg: cfg, page: page, logger: logger}

	app := fiber.New(fiber.Config{
		AppName:               "vita",
		DisableStartupMessage: true,
		ErrorHandler:          h.handleError,
	})
	app.Use(requestID())
	app.Use(h.logging())

	app.Get("/healthz", h.health)
	app.Post("/render", h.render)
	return app, nil
}

func (h *handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// render 的 backend 查询参数可覆盖配置中的后端。
func (h *handler) render(c *fiber.Ctx) error {
	rec, err := resume.Parse(c.Body())
	if err != nil {
		return badRequest(c, err)
	}
	backend := c.Query("backend", h.cfg.Backend)
	if backend != config.BackendCanvas && backend != config.BackendFPDF {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown backend: " + backend})
	}

	doc, err := pipeline.Run(rec, pipeline.Options{
		Backend:         backend,
		Font:            h.cfg.Font,
		Page:            h.page,
		ContactTemplate: h.cfg.ContactTemplate,
		Logger:          h.logger.With("request_id", requestIDFrom(c)),
	})
	if err != nil {
		if errors.Is(err, resume.ErrInvalidRecord) {
			return badRequest(c, err)
		}
		return err
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": doc.Name}))
	return c.Send(doc.PDF)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func (h *handler) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		h.logger.Error("请求处理失败", "request_id", requestIDFrom(c), "err", err)
		return c.Status(code).JSON(fiber.Map{"error": "render failed"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// requestID 沿用客户端传入的 X-Request-Id，缺失时生成 uuid。
func requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set(headerRequestID, id)
		return c.Next()
	}
}

func requestIDFrom(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// logging 每个请求输出一条结构化日志。
func (h *handler) logging() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// 先交给错误处理器写出响应，日志才能拿到最终状态码
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		h.logger.Info("request.complete",
			"request_id", requestIDFrom(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
			"client_ip", c.IP(),
		)
		return nil
	}
}
