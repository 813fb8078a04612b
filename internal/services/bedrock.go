package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const anthropicBedrockVersion = "bedrock-2023-05-31"

type BedrockAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type bedrockService struct {
	client  BedrockAPI
	modelID string
}

func NewBedrockService(client BedrockAPI, modelID string) TextGenerator {
	return &bedrockService{
		client:  client,
		modelID: modelID,
	}
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	Messages         []bedrockMessage `json:"messages"`
	MaxTokens        int32            `json:"max_tokens"`
	Temperature      float32          `json:"temperature"`
	TopP             float32          `json:"top_p"`
}

type bedrockResponse struct {
	Content []bedrockContentBlock `json:"content"`
}

// Generate implements TextGenerator using the Anthropic Messages format.
func (b *bedrockService) Generate(ctx context.Context, prompt string, profile InferenceProfile) (string, error) {
	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: anthropicBedrockVersion,
		Messages: []bedrockMessage{
			{
				Role:    "user",
				Content: []bedrockContentBlock{{Type: "text", Text: prompt}},
			},
		},
		MaxTokens:   profile.MaxTokens,
		Temperature: profile.Temperature,
		TopP:        profile.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal bedrock request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke model: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode bedrock response: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}
