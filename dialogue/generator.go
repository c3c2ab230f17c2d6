package dialogue

import (
	"context"

	"github.com/invopop/jsonschema"
)

// HarmCategory names a content-safety category understood by the model provider.
type HarmCategory string

const (
	HarmCategoryHarassment       HarmCategory = "harassment"
	HarmCategoryHateSpeech       HarmCategory = "hate_speech"
	HarmCategorySexuallyExplicit HarmCategory = "sexually_explicit"
	HarmCategoryDangerousContent HarmCategory = "dangerous_content"
)

// BlockThreshold is how aggressively a provider filters a HarmCategory.
type BlockThreshold string

const (
	BlockNone           BlockThreshold = "block_none"
	BlockOnlyHigh       BlockThreshold = "block_only_high"
	BlockMediumAndAbove BlockThreshold = "block_medium_and_above"
	BlockLowAndAbove    BlockThreshold = "block_low_and_above"
)

// SafetySetting pairs a category with its threshold.
type SafetySetting struct {
	Category  HarmCategory
	Threshold BlockThreshold
}

// PermissiveSafety disables filtering on every category; game dialogue routinely
// covers violence and conflict.
func PermissiveSafety() []SafetySetting {
	return []SafetySetting{
		{Category: HarmCategoryHarassment, Threshold: BlockNone},
		{Category: HarmCategoryHateSpeech, Threshold: BlockNone},
		{Category: HarmCategorySexuallyExplicit, Threshold: BlockNone},
		{Category: HarmCategoryDangerousContent, Threshold: BlockNone},
	}
}

// Request is everything a Generator needs for one structured completion.
type Request struct {
	Prompt            string
	SystemInstruction string
	SchemaName        string
	Schema            *jsonschema.Schema
	Safety            []SafetySetting

	// Params is nil unless the caller opted in to sending sampling parameters.
	Params *GenerationParams
}

// Generator submits a Request to a generative-language service and returns the raw
// JSON text it produced.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
