package services

import (
	"context"
	"fmt"
)

// InferenceProfile bundles the generation settings with the text reduction
// and prompt template they were tuned for.
type InferenceProfile struct {
	Name        string
	MaxTokens   int32
	Temperature float32
	TopP        float32
	Reducer     TextReducer
	Template    PromptTemplate
}

const (
	ProfileFast     = "fast"
	ProfileThorough = "thorough"
)

func FastProfile() InferenceProfile {
	return InferenceProfile{
		Name:        ProfileFast,
		MaxTokens:   300,
		Temperature: 0.7,
		TopP:        0.9,
		Reducer:     NewKeywordWindowReducer(),
		Template:    PromptConcise,
	}
}

func ThoroughProfile() InferenceProfile {
	return InferenceProfile{
		Name:        ProfileThorough,
		MaxTokens:   2000,
		Temperature: 0.1,
		TopP:        0.9,
		Reducer:     TruncateReducer{MaxChars: 150000},
		Template:    PromptDetailed,
	}
}

func ProfileByName(name string) (InferenceProfile, error) {
	switch name {
	case ProfileFast, "":
		return FastProfile(), nil
	case ProfileThorough:
		return ThoroughProfile(), nil
	default:
		return InferenceProfile{}, fmt.Errorf("unknown analysis profile: %s", name)
	}
}

// TextGenerator sends one prompt to a hosted model and returns the
// concatenated text segments of the reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, profile InferenceProfile) (string, error)
}
