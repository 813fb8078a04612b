package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type StatusHandler struct {
	statusService services.StatusService
}

func NewStatusHandler(statusService services.StatusService) *StatusHandler {
	return &StatusHandler{
		statusService: statusService,
	}
}

// HandleGetStatus handles GET /status/:resume_id
func (h *StatusHandler) HandleGetStatus(c *fiber.Ctx) error {
	resumeID := strings.TrimSpace(c.Params("resume_id"))
	if resumeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.MessageResponse{
			Message: "Missing resume_id in path.",
		})
	}

	record, err := h.statusService.Lookup(c.UserContext(), resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrResumeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.MessageResponse{
				Message: "Resume ID not found.",
			})
		}

		log.Printf("❌ Status lookup failed for %s: %v\n", resumeID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.MessageResponse{
			Message: "Internal Server Error: " + err.Error(),
		})
	}

	return c.JSON(record)
}
