package models

type ResumeStatus string

const (
	StatusProcessing ResumeStatus = "processing"
	StatusCompleted  ResumeStatus = "completed"
	StatusFailed     ResumeStatus = "failed"
)

// IsTerminal reports whether no further transition may follow s.
func (s ResumeStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Resume is the record kept for every uploaded file. The same type is used by
// the SQL store (gorm tags) and the key-value store (dynamodbav tags).
type Resume struct {
	ResumeID        string       `gorm:"column:resume_id;type:text;primaryKey" json:"resume_id" dynamodbav:"resume_id"`
	S3Bucket        string       `gorm:"column:s3_bucket;type:text" json:"s3_bucket,omitempty" dynamodbav:"s3_bucket,omitempty"`
	S3Key           string       `gorm:"column:s3_key;type:text;not null" json:"s3_key" dynamodbav:"s3_key"`
	Status          ResumeStatus `gorm:"column:status;type:text;not null;default:'processing'" json:"status" dynamodbav:"status"`
	FileName        string       `gorm:"column:file_name;type:text" json:"file_name" dynamodbav:"file_name"`
	UploadTimestamp int64        `gorm:"column:upload_timestamp;not null" json:"upload_timestamp" dynamodbav:"upload_timestamp"`

	// Set on the terminal transition only.
	AnalysisResults   *string `gorm:"column:analysis_results;type:text" json:"analysis_results,omitempty" dynamodbav:"analysis_results,omitempty"`
	AnalysisTimestamp *int64  `gorm:"column:analysis_timestamp" json:"analysis_timestamp,omitempty" dynamodbav:"analysis_timestamp,omitempty"`
	ErrorMessage      *string `gorm:"column:error_message;type:text" json:"error_message,omitempty" dynamodbav:"error_message,omitempty"`

	CompatibilityScore       *float64 `gorm:"column:compatibility_score" json:"compatibility_score,omitempty" dynamodbav:"compatibility_score,omitempty"`
	TopTechnicalSkillsFound  []string `gorm:"column:top_technical_skills_found;type:text;serializer:json" json:"top_technical_skills_found,omitempty" dynamodbav:"top_technical_skills_found,omitempty"`
	CompatibilityExplanation *string  `gorm:"column:compatibility_explanation;type:text" json:"compatibility_explanation,omitempty" dynamodbav:"compatibility_explanation,omitempty"`
	SuggestedKeywords        []string `gorm:"column:suggested_keywords;type:text;serializer:json" json:"suggested_keywords,omitempty" dynamodbav:"suggested_keywords,omitempty"`
}

func (Resume) TableName() string {
	return "resumes"
}

// Attributes flattens the record into a plain structure keyed by attribute
// name. Absent optional attributes are left out.
func (r *Resume) Attributes() map[string]any {
	attrs := map[string]any{
		"resume_id":        r.ResumeID,
		"s3_key":           r.S3Key,
		"status":           string(r.Status),
		"file_name":        r.FileName,
		"upload_timestamp": r.UploadTimestamp,
	}
	if r.S3Bucket != "" {
		attrs["s3_bucket"] = r.S3Bucket
	}
	if r.AnalysisResults != nil {
		attrs["analysis_results"] = *r.AnalysisResults
	}
	if r.AnalysisTimestamp != nil {
		attrs["analysis_timestamp"] = *r.AnalysisTimestamp
	}
	if r.ErrorMessage != nil {
		attrs["error_message"] = *r.ErrorMessage
	}
	if r.CompatibilityScore != nil {
		attrs["compatibility_score"] = *r.CompatibilityScore
	}
	if r.TopTechnicalSkillsFound != nil {
		attrs["top_technical_skills_found"] = r.TopTechnicalSkillsFound
	}
	if r.CompatibilityExplanation != nil {
		attrs["compatibility_explanation"] = *r.CompatibilityExplanation
	}
	if r.SuggestedKeywords != nil {
		attrs["suggested_keywords"] = r.SuggestedKeywords
	}
	return attrs
}
