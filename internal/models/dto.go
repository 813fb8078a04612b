package models

type UploadRequest struct {
	FileContentBase64 string `json:"file_content_base64"`
	FileName          string `json:"file_name,omitempty"`
	ContentType       string `json:"content_type,omitempty"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	ResumeID string `json:"resume_id"`
	Status   string `json:"status"`
}

// WorkItem is the queue message produced by intake and consumed by the worker.
type WorkItem struct {
	ResumeID string `json:"resume_id"`
	S3Bucket string `json:"s3_bucket"`
	S3Key    string `json:"s3_key"`
}

type BatchResult struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Completed int    `json:"completed"`
	Failed    int    `json:"failed"`
	Skipped   int    `json:"skipped"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
