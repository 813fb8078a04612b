package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/repositories"
)

var ErrInvalidUpload = errors.New("invalid upload")

// UploadError is a rejected upload. Message is returned to the caller as is.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Is(target error) bool {
	return target == ErrInvalidUpload
}

const (
	defaultFileName    = "resume_upload"
	defaultContentType = "application/octet-stream"
	docxContentType    = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

type IntakeService interface {
	Submit(ctx context.Context, req models.UploadRequest) (*models.UploadResponse, error)
}

type intakeService struct {
	resumeRepo  repositories.ResumeRepository
	storage     ObjectStorage
	queue       WorkQueue
	bucket      string
	maxFileSize int64
	newID       func() string
	now         func() time.Time
}

func NewIntakeService(
	resumeRepo repositories.ResumeRepository,
	storage ObjectStorage,
	queue WorkQueue,
	bucket string,
	maxFileSize int64,
) IntakeService {
	return &intakeService{
		resumeRepo:  resumeRepo,
		storage:     storage,
		queue:       queue,
		bucket:      bucket,
		maxFileSize: maxFileSize,
		newID:       func() string { return uuid.New().String() },
		now:         time.Now,
	}
}

// Submit stores the decoded payload, writes the processing record and queues
// the work item, in that order. A failed step leaves earlier ones in place.
func (s *intakeService) Submit(ctx context.Context, req models.UploadRequest) (*models.UploadResponse, error) {
	if req.FileContentBase64 == "" {
		return nil, &UploadError{Message: "No file content provided."}
	}

	data, err := base64.StdEncoding.DecodeString(req.FileContentBase64)
	if err != nil {
		return nil, &UploadError{Message: "File content is not valid base64."}
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return nil, &UploadError{Message: fmt.Sprintf("File too large. Max size: %d bytes.", s.maxFileSize)}
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = defaultFileName
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	resumeID := s.newID()
	key := fmt.Sprintf("%s.%s", resumeID, InferExtension(contentType, fileName))

	if err := s.storage.Put(ctx, s.bucket, key, data, contentType); err != nil {
		return nil, err
	}
	log.Printf("💾 Resume %s saved to bucket %s\n", key, s.bucket)

	resume := &models.Resume{
		ResumeID:        resumeID,
		S3Bucket:        s.bucket,
		S3Key:           key,
		Status:          models.StatusProcessing,
		FileName:        fileName,
		UploadTimestamp: s.now().UnixMilli(),
	}
	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		return nil, err
	}
	log.Printf("✅ Record created for resume ID: %s\n", resumeID)

	item := models.WorkItem{
		ResumeID: resumeID,
		S3Bucket: s.bucket,
		S3Key:    key,
	}
	if err := s.queue.Send(ctx, item); err != nil {
		return nil, err
	}
	log.Printf("📨 Work item queued for resume ID: %s\n", resumeID)

	return &models.UploadResponse{
		Message:  "Resume uploaded and queued for processing.",
		ResumeID: resumeID,
		Status:   string(models.StatusProcessing),
	}, nil
}

// InferExtension picks the stored extension from the content type first and
// the display name second. Unknown types get "bin".
func InferExtension(contentType, fileName string) string {
	name := strings.ToLower(fileName)

	switch {
	case strings.Contains(contentType, "application/pdf"):
		return "pdf"
	case strings.Contains(contentType, docxContentType), strings.HasSuffix(name, ".docx"):
		return "docx"
	case strings.HasSuffix(name, ".pdf"):
		return "pdf"
	case strings.Contains(contentType, "text/plain"), strings.HasSuffix(name, ".txt"):
		return "txt"
	default:
		return "bin"
	}
}
