package dialogue

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/fileutils"
)

// SystemInstruction frames the model as the game's dialogue writer.
const SystemInstruction = "You are a game designer and very good at literature. You are designing texts and dialogues for a game"

// DescribeProfile renders the NPC attributes that prefix every field instruction.
func DescribeProfile(npc Profile) string {
	personality, err := fileutils.MarshalJSON(npc.Personality, "")
	if err != nil {
		// Values come from a parsed JSON document, so this only trips on a hand-built Profile.
		personality = []byte(fmt.Sprintf("%+v", npc.Personality))
	}

	b := &strings.Builder{}
	fmt.Fprintf(b, "The NPC has the following personality. Each attribute is between 0.0 and 1.0 representing intensity: %s\n", personality)
	fmt.Fprintf(b, "The NPC has the following current emotion: %s\n", npc.CurrentEmotion.Text())
	fmt.Fprintf(b, "The NPC has the following current state: %s\n", npc.CurrentState.Text())
	fmt.Fprintf(b, "The NPC has the following future state that it is going to: %s\n", npc.FutureState.Text())
	fmt.Fprintf(b, "The NPC has the following knowledge graph: %s\n", npc.KnowledgeGraph.Text())
	return b.String()
}

// DescribeTask is the schema description for one field: the NPC profile followed by the
// field's instruction.
func DescribeTask(npc Profile, instruction string) string {
	return taskDescription(DescribeProfile(npc), instruction)
}

func taskDescription(profile, instruction string) string {
	return profile + "\nNow, please do the following task with all the above information: " + instruction
}

// BuildSchema returns a strict object schema with one required string property per field,
// in field order.
func BuildSchema(npc Profile, set FieldSet) *jsonschema.Schema {
	profile := DescribeProfile(npc)

	props := jsonschema.NewProperties()
	for _, f := range set.Fields {
		props.Set(f.Name, &jsonschema.Schema{
			Type:        "string",
			Description: taskDescription(profile, f.Instruction),
		})
	}

	return &jsonschema.Schema{
		Title:                set.Name,
		Type:                 "object",
		Description:          set.Description,
		Properties:           props,
		Required:             set.Names(),
		AdditionalProperties: jsonschema.FalseSchema,
	}
}
