package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/fileutils"
)

// Pipeline runs one request end to end: normalize, build schema, generate, parse.
type Pipeline struct {
	Generator Generator
	Fields    FieldSet

	// SystemInstruction defaults to SystemInstruction when empty.
	SystemInstruction string
	// Safety defaults to PermissiveSafety when nil.
	Safety []SafetySetting

	// SendGenerationParams forwards max_tokens and temperature from the input to the model.
	SendGenerationParams bool

	Logger zerolog.Logger
}

// Run processes one raw input document. Input errors are reported before the schema is
// built or the Generator is called.
func (p Pipeline) Run(ctx context.Context, input []byte) (*Response, error) {
	if p.Generator == nil {
		return nil, errors.New("Pipeline: generator is nil")
	}
	if len(p.Fields.Fields) == 0 {
		return nil, errors.New("Pipeline: field set is empty")
	}

	in, err := NormalizeInput(input)
	if err != nil {
		return nil, err
	}

	req, err := p.buildRequest(in)
	if err != nil {
		return nil, err
	}

	p.Logger.Debug().
		Str("schema", req.SchemaName).
		Int("fields", len(p.Fields.Fields)).
		Int("prompt_len", len(req.Prompt)).
		Bool("params_sent", req.Params != nil).
		Msg("sending request")

	start := time.Now()
	text, err := p.Generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	p.Logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("response_len", len(text)).
		Str("response_preview", fileutils.Truncate(text, 200)).
		Msg("response received")

	return ParseResponse(text)
}

func (p Pipeline) buildRequest(in Input) (Request, error) {
	system := p.SystemInstruction
	if system == "" {
		system = SystemInstruction
	}
	safety := p.Safety
	if safety == nil {
		safety = PermissiveSafety()
	}

	var params *GenerationParams
	if p.SendGenerationParams {
		gp, err := in.Prompt.GenerationParams()
		if err != nil {
			return Request{}, err
		}
		params = &gp
	} else {
		p.Logger.Debug().
			Str("max_tokens", in.Prompt.MaxTokens.Text()).
			Str("temperature", in.Prompt.Temperature.Text()).
			Msg("max_tokens and temperature parsed but not sent (use -send-params)")
	}

	req := Request{
		Prompt:            in.Prompt.Text,
		SystemInstruction: system,
		SchemaName:        p.Fields.Name,
		Schema:            BuildSchema(in.NPC, p.Fields),
		Safety:            safety,
		Params:            params,
	}
	return req, nil
}
