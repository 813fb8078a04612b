package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type AppConfig struct {
	Name string
	// MaxFileSize is the largest decoded upload in bytes, 0 for no cap.
	MaxFileSize int64
	// BodyLimit overrides the limit derived from MaxFileSize.
	BodyLimit int
	// DisableLogger turns off request logging, used by tests.
	DisableLogger bool
}

// NewApp builds the fiber application with middleware and every route.
func NewApp(cfg AppConfig, uploadHandler *UploadHandler, statusHandler *StatusHandler) *fiber.App {
	fiberCfg := fiber.Config{
		AppName:               cfg.Name,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          customErrorHandler(cfg.MaxFileSize),
		DisableStartupMessage: cfg.DisableLogger,
	}
	switch {
	case cfg.BodyLimit > 0:
		fiberCfg.BodyLimit = cfg.BodyLimit
	case cfg.MaxFileSize > 0:
		// base64 inflates the payload by a third, plus room for the JSON envelope.
		fiberCfg.BodyLimit = int(cfg.MaxFileSize)*4/3 + 4096
	}
	app := fiber.New(fiberCfg)

	// Middleware
	app.Use(recover.New())
	if !cfg.DisableLogger {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "2006-01-02 15:04:05",
		}))
	}

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	uploadCORS := CORS("OPTIONS,POST")
	app.Options("/upload", uploadCORS)
	app.Post("/upload", uploadCORS, uploadHandler.HandleUpload)

	statusCORS := CORS("OPTIONS,GET")
	app.Options("/status/:resume_id?", statusCORS)
	app.Get("/status/:resume_id?", statusCORS, statusHandler.HandleGetStatus)

	return app
}

// customErrorHandler also runs for requests rejected before routing, such as
// an oversize body, so it sets the CORS headers itself.
func customErrorHandler(maxFileSize int64) fiber.ErrorHandler {
	tooLarge := "File too large."
	if maxFileSize > 0 {
		tooLarge = fmt.Sprintf("File too large. Max size: %d bytes.", maxFileSize)
	}

	return func(c *fiber.Ctx, err error) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
		c.Set(fiber.HeaderAccessControlAllowHeaders, corsAllowHeaders)

		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		// Same answer as an oversize payload caught by the intake check.
		if code == fiber.StatusRequestEntityTooLarge {
			return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
				Message: tooLarge,
			})
		}

		return c.Status(code).JSON(fiber.Map{
			"message": err.Error(),
			"code":    code,
		})
	}
}
