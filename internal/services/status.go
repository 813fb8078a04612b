package services

import (
	"context"
	"encoding/json"
	"log"

	"alfredoptarigan/resume-analyzer/internal/repositories"
)

type StatusService interface {
	Lookup(ctx context.Context, resumeID string) (map[string]any, error)
}

type statusService struct {
	resumeRepo repositories.ResumeRepository
}

func NewStatusService(resumeRepo repositories.ResumeRepository) StatusService {
	return &statusService{
		resumeRepo: resumeRepo,
	}
}

// Lookup returns the record as a plain structure. A well-formed analysis
// payload is returned parsed; anything else is kept as the stored string.
func (s *statusService) Lookup(ctx context.Context, resumeID string) (map[string]any, error) {
	resume, err := s.resumeRepo.FindByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}

	attrs := resume.Attributes()
	if raw, ok := attrs["analysis_results"].(string); ok {
		var parsed any
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			log.Printf("⚠️  analysis_results for %s is not valid JSON\n", resumeID)
		} else {
			attrs["analysis_results"] = parsed
		}
	}

	return attrs, nil
}
