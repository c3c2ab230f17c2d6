package dialogue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Input keys.
const (
	keyPrompt            = "prompt"
	keyMaxTokens         = "max_tokens"
	keyTemperature       = "temperature"
	keyCurrentState      = "current_state"
	keyFutureState       = "future_state"
	keyCurrentEmotion    = "current_emotion"
	keyKnowledgeGraph    = "knowledge_graph"
	keyOpenness          = "openness"
	keyConscientiousness = "conscientiousness"
	keyExtraversion      = "extraversion"
	keyAgreeableness     = "agreeableness"
	keyNeuroticism       = "neuroticism"
)

// Defaults applied when a key is absent or null.
var (
	DefaultState          = Value(`"Neutral"`)
	DefaultTrait          = Value(`0.5`)
	DefaultKnowledgeGraph = Value(`{}`)
	DefaultPrompt         = Value(`""`)
	DefaultMaxTokens      = Value(`150`)
	DefaultTemperature    = Value(`0.7`)
)

// Value is a raw JSON value taken from the input. It is never validated or coerced.
type Value json.RawMessage

// Text renders v for prompt text: JSON strings unquoted, everything else as compact JSON.
func (v Value) Text() string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if v[0] == '"' && json.Unmarshal(v, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

// MarshalJSON emits the raw value unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// Float reports v as a float64 when it is a JSON number.
func (v Value) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(v)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Personality holds the Big Five trait scores. Each is expected in [0,1] but is passed
// through as given.
type Personality struct {
	Openness          Value `json:"openness"`
	Conscientiousness Value `json:"conscientiousness"`
	Extraversion      Value `json:"extraversion"`
	Agreeableness     Value `json:"agreeableness"`
	Neuroticism       Value `json:"neuroticism"`
}

// Profile is the normalized NPC description embedded in every field instruction.
type Profile struct {
	CurrentState   Value       `json:"currentState"`
	FutureState    Value       `json:"futureState"`
	CurrentEmotion Value       `json:"currentEmotion"`
	Personality    Personality `json:"personality"`
	KnowledgeGraph Value       `json:"knowledgeGraph"`
}

// Prompt is the user-facing request. MaxTokens and Temperature are parsed but only sent
// to the model when the caller opts in.
type Prompt struct {
	Text        string `json:"text"`
	MaxTokens   Value  `json:"maxTokens"`
	Temperature Value  `json:"temperature"`
}

// GenerationParams are the numeric sampling parameters derived from a Prompt.
type GenerationParams struct {
	MaxOutputTokens int64
	Temperature     float64
}

// MaxOutputTokensLimit is the largest max_tokens accepted. Providers take an int32.
const MaxOutputTokensLimit = math.MaxInt32

// GenerationParams converts MaxTokens and Temperature to numbers. max_tokens must be a
// whole number in [1, MaxOutputTokensLimit].
func (p Prompt) GenerationParams() (GenerationParams, error) {
	maxTokens, ok := p.MaxTokens.Float()
	if !ok {
		return GenerationParams{}, fmt.Errorf("%w: max_tokens is not a number: %s", ErrInputParse, p.MaxTokens.Text())
	}
	if maxTokens < 1 || maxTokens > MaxOutputTokensLimit || maxTokens != math.Trunc(maxTokens) {
		return GenerationParams{}, fmt.Errorf("%w: max_tokens must be a whole number between 1 and %d: %s",
			ErrInputParse, MaxOutputTokensLimit, p.MaxTokens.Text())
	}
	temperature, ok := p.Temperature.Float()
	if !ok {
		return GenerationParams{}, fmt.Errorf("%w: temperature is not a number: %s", ErrInputParse, p.Temperature.Text())
	}
	return GenerationParams{
		MaxOutputTokens: int64(maxTokens),
		Temperature:     temperature,
	}, nil
}

// Input is the normalized form of one request read from stdin.
type Input struct {
	Prompt Prompt
	NPC    Profile
}

// NormalizeInput parses data as a JSON object and fills every missing or null key with
// its default. Present values are kept verbatim regardless of their JSON type.
func NormalizeInput(data []byte) (Input, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Input{}, fmt.Errorf("%w: empty input", ErrInputParse)
	}
	if trimmed[0] != '{' {
		return Input{}, fmt.Errorf("%w: input must be a JSON object", ErrInputParse)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Input{}, fmt.Errorf("%w: %v", ErrInputParse, err)
	}

	get := func(key string, def Value) Value {
		v, ok := raw[key]
		if !ok {
			return def
		}
		v = bytes.TrimSpace(v)
		if len(v) == 0 || string(v) == "null" {
			return def
		}
		return Value(v)
	}

	return Input{
		Prompt: Prompt{
			Text:        get(keyPrompt, DefaultPrompt).Text(),
			MaxTokens:   get(keyMaxTokens, DefaultMaxTokens),
			Temperature: get(keyTemperature, DefaultTemperature),
		},
		NPC: Profile{
			CurrentState:   get(keyCurrentState, DefaultState),
			FutureState:    get(keyFutureState, DefaultState),
			CurrentEmotion: get(keyCurrentEmotion, DefaultState),
			Personality: Personality{
				Openness:          get(keyOpenness, DefaultTrait),
				Conscientiousness: get(keyConscientiousness, DefaultTrait),
				Extraversion:      get(keyExtraversion, DefaultTrait),
				Agreeableness:     get(keyAgreeableness, DefaultTrait),
				Neuroticism:       get(keyNeuroticism, DefaultTrait),
			},
			KnowledgeGraph: get(keyKnowledgeGraph, DefaultKnowledgeGraph),
		},
	}, nil
}
