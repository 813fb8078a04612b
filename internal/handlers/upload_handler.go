package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type UploadHandler struct {
	intakeService services.IntakeService
}

func NewUploadHandler(intakeService services.IntakeService) *UploadHandler {
	return &UploadHandler{
		intakeService: intakeService,
	}
}

// HandleUpload handles POST /upload
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	var req models.UploadRequest

	// The body is JSON whatever Content-Type the client sends.
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
			Message: "Invalid JSON format in request body.",
		})
	}

	resp, err := h.intakeService.Submit(c.UserContext(), req)
	if err != nil {
		var uploadErr *services.UploadError
		if errors.As(err, &uploadErr) {
			return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
				Message: uploadErr.Message,
			})
		}

		log.Printf("❌ Upload failed: %v\n", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.MessageResponse{
			Message: "Internal Server Error: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
