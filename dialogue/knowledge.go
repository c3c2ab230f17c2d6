package dialogue

import (
	"errors"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/fileutils"
)

// Entity is a node of what an NPC knows: a person, place or thing with free-form properties.
type Entity struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Relationship links two entities by ID.
type Relationship struct {
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	Type       string            `json:"type"`
	Properties map[string]string `json:"properties,omitempty"`
}

// KnowledgeGraph is a typed builder for the knowledge_graph input. It is only a
// convenience for Go callers: the generator accepts any JSON value there and passes it
// through unchanged.
type KnowledgeGraph struct {
	entities      *orderedmap.OrderedMap[string, Entity]
	relationships []Relationship
}

func NewKnowledgeGraph() *KnowledgeGraph {
	return &KnowledgeGraph{entities: orderedmap.New[string, Entity]()}
}

// AddEntity stores e, replacing any entity with the same ID in place.
func (g *KnowledgeGraph) AddEntity(e Entity) error {
	if e.ID == "" {
		return errors.New("AddEntity: entity id is empty")
	}
	g.entities.Set(e.ID, e)
	return nil
}

// AddRelationship appends r. Endpoints are not required to exist as entities.
func (g *KnowledgeGraph) AddRelationship(r Relationship) error {
	if r.Source == "" || r.Target == "" {
		return errors.New("AddRelationship: source and target are required")
	}
	g.relationships = append(g.relationships, r)
	return nil
}

func (g *KnowledgeGraph) Entity(id string) (Entity, bool) {
	return g.entities.Get(id)
}

// Relationships returns every relationship where id is the source or the target, in
// insertion order.
func (g *KnowledgeGraph) Relationships(id string) []Relationship {
	var out []Relationship
	for _, r := range g.relationships {
		if r.Source == id || r.Target == id {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON renders {"entities": [...], "relationships": [...]} with entities in
// insertion order.
func (g *KnowledgeGraph) MarshalJSON() ([]byte, error) {
	entities := make([]Entity, 0, g.entities.Len())
	for pair := g.entities.Oldest(); pair != nil; pair = pair.Next() {
		entities = append(entities, pair.Value)
	}
	relationships := g.relationships
	if relationships == nil {
		relationships = []Relationship{}
	}
	return fileutils.MarshalJSON(struct {
		Entities      []Entity       `json:"entities"`
		Relationships []Relationship `json:"relationships"`
	}{entities, relationships}, "")
}
