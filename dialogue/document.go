package dialogue

import (
	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/fileutils"
)

// Traits are Big Five scores, conventionally in [0,1]. They are sent as given.
type Traits struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// Document is the input object in typed form, for callers that build requests in Go
// rather than by hand. Zero fields are left out so the defaults apply.
type Document struct {
	Prompt         string
	MaxTokens      int
	Temperature    *float64
	CurrentState   string
	FutureState    string
	CurrentEmotion Emotion
	Traits         *Traits
	KnowledgeGraph *KnowledgeGraph
}

type documentJSON struct {
	Prompt            string          `json:"prompt,omitempty"`
	MaxTokens         int             `json:"max_tokens,omitempty"`
	Temperature       *float64        `json:"temperature,omitempty"`
	CurrentState      string          `json:"current_state,omitempty"`
	FutureState       string          `json:"future_state,omitempty"`
	CurrentEmotion    Emotion         `json:"current_emotion,omitempty"`
	Openness          *float64        `json:"openness,omitempty"`
	Conscientiousness *float64        `json:"conscientiousness,omitempty"`
	Extraversion      *float64        `json:"extraversion,omitempty"`
	Agreeableness     *float64        `json:"agreeableness,omitempty"`
	Neuroticism       *float64        `json:"neuroticism,omitempty"`
	KnowledgeGraph    *KnowledgeGraph `json:"knowledge_graph,omitempty"`
}

// MarshalJSON renders the flat object NormalizeInput reads.
func (d Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		Prompt:         d.Prompt,
		MaxTokens:      d.MaxTokens,
		Temperature:    d.Temperature,
		CurrentState:   d.CurrentState,
		FutureState:    d.FutureState,
		CurrentEmotion: d.CurrentEmotion,
		KnowledgeGraph: d.KnowledgeGraph,
	}
	if t := d.Traits; t != nil {
		out.Openness = &t.Openness
		out.Conscientiousness = &t.Conscientiousness
		out.Extraversion = &t.Extraversion
		out.Agreeableness = &t.Agreeableness
		out.Neuroticism = &t.Neuroticism
	}
	return fileutils.MarshalJSON(out, "")
}

// SampleDocument is a filled-in request used by the -template flag of the tools.
func SampleDocument() Document {
	temperature := 0.7
	g := NewKnowledgeGraph()
	_ = g.AddEntity(Entity{ID: "mira", Properties: map[string]string{"role": "innkeeper", "town": "Larkfield"}})
	_ = g.AddEntity(Entity{ID: "traveler", Properties: map[string]string{"role": "player"}})
	_ = g.AddEntity(Entity{ID: "old_bridge", Properties: map[string]string{"state": "collapsed"}})
	_ = g.AddRelationship(Relationship{Source: "mira", Target: "traveler", Type: "just_met"})
	_ = g.AddRelationship(Relationship{Source: "mira", Target: "old_bridge", Type: "knows_about", Properties: map[string]string{"since": "last storm"}})

	return Document{
		Prompt:         "The traveler asks Mira for a room and the fastest way north.",
		MaxTokens:      150,
		Temperature:    &temperature,
		CurrentState:   "Wiping down the bar",
		FutureState:    "Close the inn for the night",
		CurrentEmotion: EmotionTrust,
		Traits: &Traits{
			Openness:          0.7,
			Conscientiousness: 0.8,
			Extraversion:      0.6,
			Agreeableness:     0.75,
			Neuroticism:       0.3,
		},
		KnowledgeGraph: g,
	}
}
