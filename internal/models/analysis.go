package models

// Keys of the analysis object the model is asked to return.
const (
	FieldCompatibilityScore       = "compatibility_score"
	FieldTopTechnicalSkillsFound  = "top_technical_skills_found"
	FieldCompatibilityExplanation = "compatibility_explanation"
	FieldSuggestedKeywords        = "suggested_keywords"
)

var RequiredAnalysisFields = []string{
	FieldCompatibilityScore,
	FieldTopTechnicalSkillsFound,
	FieldCompatibilityExplanation,
	FieldSuggestedKeywords,
}
