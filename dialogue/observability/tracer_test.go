package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue"
)

func recordingTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sessionInjector{}),
		sdktrace.WithSpanProcessor(rec),
	)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return rec, tp
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestTraceGenerator_RecordsSpan(t *testing.T) {
	t.Parallel()

	rec, tp := recordingTracer(t)
	next := dialogue.GeneratorFunc(func(ctx context.Context, req dialogue.Request) (string, error) {
		assert.True(t, trace.SpanFromContext(ctx).SpanContext().IsValid())
		return `{"npcResponse":"hi"}`, nil
	})
	gen := TraceGenerator(next, tp.Tracer("test"), "gemini", "gemini-2.5-flash")

	ctx := WithSessionID(context.Background(), "run-123")
	text, err := gen.Generate(ctx, dialogue.Request{Prompt: "hello", SchemaName: "NPCReply"})
	require.NoError(t, err)
	assert.Equal(t, `{"npcResponse":"hi"}`, text)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "npc.generate", span.Name())
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())

	attrs := attrMap(span.Attributes())
	assert.Equal(t, "gemini", attrs["gen_ai.system"].AsString())
	assert.Equal(t, "gemini-2.5-flash", attrs["gen_ai.request.model"].AsString())
	assert.Equal(t, "NPCReply", attrs["npc.schema"].AsString())
	assert.Equal(t, "run-123", attrs["langfuse.session.id"].AsString())
	assert.Equal(t, `{"npcResponse":"hi"}`, attrs["langfuse.observation.output"].AsString())
}

func TestTraceGenerator_RecordsError(t *testing.T) {
	t.Parallel()

	rec, tp := recordingTracer(t)
	boom := errors.New("boom")
	next := dialogue.GeneratorFunc(func(context.Context, dialogue.Request) (string, error) {
		return "", boom
	})
	gen := TraceGenerator(next, tp.Tracer("test"), "openai", "gpt-5-mini")

	_, err := gen.Generate(context.Background(), dialogue.Request{})
	require.ErrorIs(t, err, boom)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "llm_completion_error", attrMap(spans[0].Attributes())["error.type"].AsString())
}

func TestInitTracing_Disabled(t *testing.T) {
	t.Parallel()

	tp, err := InitTracing(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "true")
	t.Setenv("LANGFUSE_HOST", "http://localhost:3000")
	t.Setenv("LANGFUSE_PUBLIC_KEY", "pk")
	t.Setenv("LANGFUSE_SECRET_KEY", "sk")
	t.Setenv("ENVIRONMENT", "test")

	cfg, err := LoadConfigFromEnv("npc-dialogue")
	require.NoError(t, err)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "http://localhost:3000", cfg.LangfuseHost)
	assert.Equal(t, "pk", cfg.PublicKey)
	assert.Equal(t, "sk", cfg.SecretKey)
	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, "npc-dialogue", cfg.ServiceName)
}
