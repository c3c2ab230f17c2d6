package dialogue

// Emotion is one of the basic emotions NPC prompts are written around. current_emotion
// still accepts any JSON value; these names are a shared vocabulary for callers.
type Emotion string

const (
	EmotionJoy          Emotion = "Joy"
	EmotionTrust        Emotion = "Trust"
	EmotionFear         Emotion = "Fear"
	EmotionSurprise     Emotion = "Surprise"
	EmotionSadness      Emotion = "Sadness"
	EmotionDisgust      Emotion = "Disgust"
	EmotionAnger        Emotion = "Anger"
	EmotionAnticipation Emotion = "Anticipation"
	EmotionNeutral      Emotion = "Neutral"
)

var emotionActions = map[Emotion]string{
	EmotionJoy:          "Dance",
	EmotionTrust:        "Collaborate",
	EmotionFear:         "Hide",
	EmotionSurprise:     "Investigate",
	EmotionSadness:      "Cry",
	EmotionDisgust:      "Reject",
	EmotionAnger:        "Shout",
	EmotionAnticipation: "Prepare",
	EmotionNeutral:      "Observe",
}

// Emotions lists the vocabulary in a stable order.
func Emotions() []Emotion {
	return []Emotion{
		EmotionJoy,
		EmotionTrust,
		EmotionFear,
		EmotionSurprise,
		EmotionSadness,
		EmotionDisgust,
		EmotionAnger,
		EmotionAnticipation,
		EmotionNeutral,
	}
}

// Known reports whether e is part of the vocabulary.
func (e Emotion) Known() bool {
	_, ok := emotionActions[e]
	return ok
}

// Action is the default reaction for an NPC feeling e. Emotions outside the vocabulary
// observe, like Neutral.
func (e Emotion) Action() string {
	if a, ok := emotionActions[e]; ok {
		return a
	}
	return emotionActions[EmotionNeutral]
}
