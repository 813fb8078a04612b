package services

import (
	"fmt"
)

type PromptTemplate string

const (
	PromptConcise  PromptTemplate = "concise"
	PromptDetailed PromptTemplate = "detailed"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt embeds the reduced resume text in the chosen template.
func (pb *PromptBuilder) BuildAnalysisPrompt(template PromptTemplate, resumeText string) string {
	if template == PromptDetailed {
		return pb.buildDetailedPrompt(resumeText)
	}
	return pb.buildConcisePrompt(resumeText)
}

func (pb *PromptBuilder) buildConcisePrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze this resume for tech career compatibility. Return JSON only:
{
  "compatibility_score": number (0-100),
  "top_technical_skills_found": ["skill1", "skill2", "skill3"],
  "compatibility_explanation": "brief explanation",
  "suggested_keywords": ["keyword1", "keyword2"]
}

Resume: %s`, resumeText)
}

func (pb *PromptBuilder) buildDetailedPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert resume analyzer for technical roles.
Given the following resume text, perform a technical compatibility analysis for a general software engineering role.

Your analysis should include:
1. A 'compatibility_score' out of 100, where 100 is a perfect fit. This score should reflect how well the candidate's technical skills and experience align with a typical software engineering role (e.g., programming languages, data structures, algorithms, system design, relevant frameworks).
2. A list of 'top_technical_skills_found' (maximum 7 relevant technical skills identified from the resume).
3. A 'compatibility_explanation' detailing why the score was given, highlighting key technical strengths and specific areas for technical improvement for a software engineering role. Be concise and focused on technology.
4. 'suggested_keywords' (maximum 5 technical terms or concepts) that, if relevant to the candidate's actual skills, would make the resume more appealing for technical roles.

Provide the output as a JSON object ONLY. Do not include any other text, preambles, or explanations outside the JSON. Ensure the JSON is valid and complete.

Resume Text:
%s`, resumeText)
}
