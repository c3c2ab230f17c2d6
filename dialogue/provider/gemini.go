package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
)

// DefaultGeminiModel is used when no -model override is given.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures a Gemini client. The API key is passed explicitly; nothing is
// read from the environment here.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Gemini generates structured output through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is empty", dialogue.ErrConfig)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, req dialogue.Request) (string, error) {
	if g.client == nil {
		return "", errors.New("Gemini: client is nil")
	}

	config, err := geminiConfig(req)
	if err != nil {
		return "", err
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", err
	}
	return geminiText(res)
}

func geminiConfig(req dialogue.Request) (*genai.GenerateContentConfig, error) {
	schema, err := GeminiSchema(req.Schema)
	if err != nil {
		return nil, fmt.Errorf("convert schema: %w", err)
	}

	safety := make([]*genai.SafetySetting, 0, len(req.Safety))
	for _, s := range req.Safety {
		category, err := geminiHarmCategory(s.Category)
		if err != nil {
			return nil, err
		}
		threshold, err := geminiThreshold(s.Threshold)
		if err != nil {
			return nil, err
		}
		safety = append(safety, &genai.SafetySetting{
			Category:  category,
			Threshold: threshold,
		})
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		SafetySettings:   safety,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Params != nil {
		if req.Params.MaxOutputTokens < 1 || req.Params.MaxOutputTokens > dialogue.MaxOutputTokensLimit {
			return nil, fmt.Errorf("%w: max output tokens %d out of range", dialogue.ErrInputParse, req.Params.MaxOutputTokens)
		}
		config.MaxOutputTokens = int32(req.Params.MaxOutputTokens)
		config.Temperature = genai.Ptr(float32(req.Params.Temperature))
	}
	return config, nil
}

// geminiText joins the text parts of the first candidate. A blocked prompt comes back with
// no candidates at all.
func geminiText(res *genai.GenerateContentResponse) (string, error) {
	if res == nil {
		return "", errors.New("gemini returned a nil response")
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s", res.PromptFeedback.BlockReason)
		}
		return "", errors.New("gemini returned no candidates")
	}

	var b strings.Builder
	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String(), nil
}

func geminiHarmCategory(c dialogue.HarmCategory) (genai.HarmCategory, error) {
	switch c {
	case dialogue.HarmCategoryHarassment:
		return genai.HarmCategoryHarassment, nil
	case dialogue.HarmCategoryHateSpeech:
		return genai.HarmCategoryHateSpeech, nil
	case dialogue.HarmCategorySexuallyExplicit:
		return genai.HarmCategorySexuallyExplicit, nil
	case dialogue.HarmCategoryDangerousContent:
		return genai.HarmCategoryDangerousContent, nil
	default:
		return "", fmt.Errorf("unknown harm category %q", c)
	}
}

func geminiThreshold(t dialogue.BlockThreshold) (genai.HarmBlockThreshold, error) {
	switch t {
	case dialogue.BlockNone:
		return genai.HarmBlockThresholdBlockNone, nil
	case dialogue.BlockOnlyHigh:
		return genai.HarmBlockThresholdBlockOnlyHigh, nil
	case dialogue.BlockMediumAndAbove:
		return genai.HarmBlockThresholdBlockMediumAndAbove, nil
	case dialogue.BlockLowAndAbove:
		return genai.HarmBlockThresholdBlockLowAndAbove, nil
	default:
		return "", fmt.Errorf("unknown block threshold %q", t)
	}
}
