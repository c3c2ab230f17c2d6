package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
)

// TracedGenerator wraps a Generator with one client span per call.
type TracedGenerator struct {
	next   dialogue.Generator
	tracer trace.Tracer
	system string
	model  string
}

// TraceGenerator decorates next. system is the gen_ai.system value ("gemini", "openai").
func TraceGenerator(next dialogue.Generator, tracer trace.Tracer, system, model string) *TracedGenerator {
	return &TracedGenerator{
		next:   next,
		tracer: tracer,
		system: system,
		model:  model,
	}
}

func (g *TracedGenerator) Generate(ctx context.Context, req dialogue.Request) (string, error) {
	ctx, span := g.tracer.Start(ctx, "npc.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(CreateGenAIAttributes(g.system, g.model)...),
	)
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("response_format", "json_schema"),
		attribute.String("npc.schema", req.SchemaName),
		attribute.Int("npc.safety_settings", len(req.Safety)),
	}
	if req.Schema != nil {
		attrs = append(attrs, attribute.StringSlice("npc.fields", req.Schema.Required))
	}
	if req.Params != nil {
		attrs = append(attrs,
			attribute.Int64("gen_ai.request.max_tokens", req.Params.MaxOutputTokens),
			attribute.Float64("gen_ai.request.temperature", req.Params.Temperature),
		)
	}
	span.SetAttributes(attrs...)

	span.AddEvent("gen_ai.user.message", trace.WithAttributes(
		attribute.String("gen_ai.system", g.system),
		attribute.String("content", req.Prompt),
	))

	start := time.Now()
	text, err := g.next.Generate(ctx, req)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	span.SetAttributes(
		attribute.Int64("response_time_ms", time.Since(start).Milliseconds()),
		attribute.String("langfuse.observation.input", req.SystemInstruction+"\n\n"+req.Prompt),
		attribute.String("langfuse.observation.output", text),
		attribute.String("langfuse.observation.output_format", "json_schema"),
		attribute.String("langfuse.observation.model.name", g.model),
	)
	span.AddEvent("gen_ai.choice", trace.WithAttributes(
		attribute.String("gen_ai.system", g.system),
		attribute.String("content", text),
	))
	return text, nil
}
