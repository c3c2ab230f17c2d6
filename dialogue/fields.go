package dialogue

// Field is one named string in the response schema together with the task the model
// must perform to fill it.
type Field struct {
	Name        string
	Instruction string
}

// FieldSet is a declarative response shape. Both tools share one builder and differ only
// in the FieldSet they pass to it.
type FieldSet struct {
	Name        string
	Description string
	Fields      []Field
}

// Names returns the field names in declaration order.
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// ReplyFields is the short variant: what the NPC says, what others say, and how everyone feels.
var ReplyFields = FieldSet{
	Name:        "NPCReply",
	Description: "Make sure all of it is realistic and fun.",
	Fields: []Field{
		{Name: "npcResponse", Instruction: "Please create a dialogue that the NPC would say. Don't narrate. Just the dialogue of the NPC."},
		{Name: "otherResponse", Instruction: "Please create a dialogue on what the PC or other NPC would say if the NPC was doing or saying the action but not in direct conversation with the NPC. Don't narrate. Just the dialogue of the PC or other NPC."},
		{Name: "npcFeelings", Instruction: "Please create a detailed description of feelings that the NPC is going through."},
		{Name: "otherFeelings", Instruction: "Please create a detailed description of how the PC and other NPCs are feeling about the NPC."},
		{Name: "actionDescription", Instruction: "Please create a detailed description about the events that are happening."},
	},
}

// SceneFields is the long variant covering the NPC, the player character and bystanders.
var SceneFields = FieldSet{
	Name:        "NPCScene",
	Description: "Make sure all of it is realistic and fun. Keep every field consistent with the others.",
	Fields: []Field{
		{Name: "npcDialogue", Instruction: "Please create a dialogue that the NPC would say. Don't narrate. Just the dialogue of the NPC."},
		{Name: "npcInnerMonologue", Instruction: "Please write the private thoughts running through the NPC's head right now, in first person. Nobody else can hear them."},
		{Name: "npcEmotions", Instruction: "Please create a detailed description of the emotions the NPC is going through."},
		{Name: "npcBodyLanguage", Instruction: "Please describe the NPC's posture, gestures and facial expression while speaking."},
		{Name: "npcAction", Instruction: "Please describe the physical action the NPC takes in this moment. Don't include dialogue."},
		{Name: "npcIntent", Instruction: "Please state in one or two sentences what the NPC wants to achieve from this exchange."},
		{Name: "pcDialogue", Instruction: "Please create a dialogue that the PC could say in reply to the NPC. Don't narrate. Just the dialogue of the PC."},
		{Name: "pcEmotions", Instruction: "Please create a detailed description of how the PC is feeling about the NPC and the situation."},
		{Name: "pcReaction", Instruction: "Please describe how the PC visibly reacts to what the NPC says and does."},
		{Name: "bystanderDialogue", Instruction: "Please create a dialogue that other NPCs nearby would say about the NPC, not in direct conversation with the NPC. Don't narrate. Just their dialogue."},
		{Name: "bystanderEmotions", Instruction: "Please create a detailed description of how other NPCs nearby are feeling about the NPC."},
		{Name: "sceneDescription", Instruction: "Please create a detailed description about the events that are happening."},
		{Name: "atmosphere", Instruction: "Please describe the mood of the surroundings: light, sound, smell and tension in the air."},
		{Name: "stateTransition", Instruction: "Please describe how the NPC moves from its current state toward its future state as a result of this scene."},
	},
}
