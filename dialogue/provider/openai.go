package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
)

// DefaultOpenAIModel is used when no -model override is given.
const DefaultOpenAIModel = "gpt-5-mini"

type OpenAIConfig struct {
	APIKey string
	Model  string
	Logger zerolog.Logger
}

// OpenAI generates structured output through the Responses API with a strict json_schema.
// OpenAI has no per-category safety thresholds, so Request.Safety is not sent.
type OpenAI struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai api key is empty", dialogue.ErrConfig)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	return &OpenAI{
		client: &client,
		model:  model,
		logger: cfg.Logger,
	}, nil
}

func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Generate(ctx context.Context, req dialogue.Request) (string, error) {
	if o.client == nil {
		return "", errors.New("OpenAI: client is nil")
	}
	if len(req.Safety) > 0 {
		o.logger.Debug().Int("settings", len(req.Safety)).Msg("openai: safety settings not supported, ignoring")
	}

	params, err := openAIParams(o.model, req)
	if err != nil {
		return "", err
	}

	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}
	return resp.OutputText(), nil
}

func openAIParams(model string, req dialogue.Request) (responses.ResponseNewParams, error) {
	schema, err := OpenAISchema(req.Schema)
	if err != nil {
		return responses.ResponseNewParams{}, fmt.Errorf("convert schema: %w", err)
	}

	name := req.SchemaName
	if name == "" {
		name = "NPCResponse"
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        name,
			Schema:      schema,
			Strict:      openai.Bool(true),
			Description: openai.String("NPC dialogue JSON"),
			Type:        "json_schema",
		},
	}

	input := []responses.ResponseInputItemUnionParam{
		responses.ResponseInputItemParamOfMessage(req.Prompt, responses.EasyInputMessageRoleUser),
	}
	params := responses.ResponseNewParams{
		Model: model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: input,
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}
	if req.SystemInstruction != "" {
		params.Instructions = openai.String(req.SystemInstruction)
	}
	if req.Params != nil {
		params.MaxOutputTokens = openai.Int(req.Params.MaxOutputTokens)
		params.Temperature = openai.Float(req.Params.Temperature)
	}
	return params, nil
}
