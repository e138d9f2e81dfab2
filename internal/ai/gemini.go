// Package ai wraps the hosted Gemini model behind the two calls document
// ingestion needs. Both calls are best-effort for callers: errors here mean
// "no answer", never a failed upload.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"sitedocs/internal/model"
)

const classifyPrompt = `You are an expert construction document classifier. ` +
	`Classify the attached document as exactly one of "Construction", "MEP" or "Code/Specification". ` +
	`Answer with the category name only.`

const extractPromptFmt = `The attached document is classified as %q. ` +
	`Extract the following from it and answer as a JSON object with exactly these string keys: ` +
	`"materialSchedules" (material schedules and quantities), ` +
	`"equipmentSpecifications" (equipment makes, models and ratings), ` +
	`"spatialDimensions" (dimensions, areas and clearances). ` +
	`Use an empty string for anything the document does not contain.`

type GeminiAnalyzer struct {
	classifyModel *genai.GenerativeModel
	extractModel  *genai.GenerativeModel
}

func NewGeminiAnalyzer(client *genai.Client, modelName string) *GeminiAnalyzer {
	classify := client.GenerativeModel(modelName)
	extract := client.GenerativeModel(modelName)
	extract.ResponseMIMEType = "application/json"
	return &GeminiAnalyzer{
		classifyModel: classify,
		extractModel:  extract,
	}
}

// Classify asks the model for a category. Unrecognized answers come back
// as ClassificationUnknown rather than an error.
func (g *GeminiAnalyzer) Classify(ctx context.Context, data []byte, mimeType string) (model.Classification, error) {
	resp, err := g.classifyModel.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text(classifyPrompt),
	)
	if err != nil {
		return model.ClassificationUnknown, fmt.Errorf("classify call failed: %w", err)
	}
	return ParseClassification(responseText(resp)), nil
}

// Extract asks the model for the three structured fields.
func (g *GeminiAnalyzer) Extract(ctx context.Context, data []byte, mimeType string, category model.Classification) (model.ExtractedInfo, error) {
	resp, err := g.extractModel.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: data},
		genai.Text(fmt.Sprintf(extractPromptFmt, category)),
	)
	if err != nil {
		return model.ExtractedInfo{}, fmt.Errorf("extract call failed: %w", err)
	}

	var info model.ExtractedInfo
	if err := json.Unmarshal([]byte(responseText(resp)), &info); err != nil {
		return model.ExtractedInfo{}, fmt.Errorf("parse extraction json failed: %w", err)
	}
	return info, nil
}

// ParseClassification normalizes a model answer to a category. Anything
// that is not one of the three known labels maps to Unknown.
func ParseClassification(raw string) model.Classification {
	cleaned := strings.Trim(strings.TrimSpace(raw), `"'.`)
	switch {
	case strings.EqualFold(cleaned, string(model.ClassificationConstruction)):
		return model.ClassificationConstruction
	case strings.EqualFold(cleaned, string(model.ClassificationMEP)):
		return model.ClassificationMEP
	case strings.EqualFold(cleaned, string(model.ClassificationCodeSpec)),
		strings.EqualFold(cleaned, "Code"),
		strings.EqualFold(cleaned, "Specification"):
		return model.ClassificationCodeSpec
	default:
		return model.ClassificationUnknown
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
