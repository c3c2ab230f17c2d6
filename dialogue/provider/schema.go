package provider

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"
)

// OpenAISchema converts a schema into the map form the OpenAI strict json_schema format expects.
func OpenAISchema(schema *jsonschema.Schema) (map[string]interface{}, error) {
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		return nil, err
	}
	ensureOpenAICompliance(schemaObj)
	return schemaObj, nil
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
	titleKey                = "title"
)

// ensureOpenAICompliance applies strict-mode rules: every object closes additionalProperties
// and requires all of its properties.
func ensureOpenAICompliance(schema map[string]interface{}) {
	delete(schema, titleKey)

	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			requiredFields := requiredList(schema[requiredKey])
			seen := make(map[string]bool, len(requiredFields))
			for _, name := range requiredFields {
				seen[name] = true
			}
			for propName := range properties {
				if !seen[propName] {
					requiredFields = append(requiredFields, propName)
				}
			}
			if len(requiredFields) > 0 {
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]interface{}); ok {
		ensureOpenAICompliance(items)
	}

	if additionalProps, ok := schema[additionalPropertiesKey].(map[string]interface{}); ok {
		ensureOpenAICompliance(additionalProps)
	}
}

func requiredList(v interface{}) []string {
	list, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GeminiSchema converts a schema into genai's OpenAPI-subset Schema, keeping property order.
func GeminiSchema(schema *jsonschema.Schema) (*genai.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	typ, err := geminiType(schema.Type)
	if err != nil {
		return nil, err
	}

	out := &genai.Schema{
		Type:        typ,
		Description: schema.Description,
		Required:    append([]string(nil), schema.Required...),
	}
	for _, e := range schema.Enum {
		out.Enum = append(out.Enum, fmt.Sprint(e))
	}

	if schema.Properties != nil && schema.Properties.Len() > 0 {
		out.Properties = make(map[string]*genai.Schema, schema.Properties.Len())
		for p := schema.Properties.Oldest(); p != nil; p = p.Next() {
			child, err := GeminiSchema(p.Value)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Key, err)
			}
			out.Properties[p.Key] = child
			out.PropertyOrdering = append(out.PropertyOrdering, p.Key)
		}
	}

	if schema.Items != nil {
		items, err := GeminiSchema(schema.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = items
	}
	return out, nil
}

func geminiType(t string) (genai.Type, error) {
	switch t {
	case "object":
		return genai.TypeObject, nil
	case "string":
		return genai.TypeString, nil
	case "array":
		return genai.TypeArray, nil
	case "integer":
		return genai.TypeInteger, nil
	case "number":
		return genai.TypeNumber, nil
	case "boolean":
		return genai.TypeBoolean, nil
	default:
		return "", fmt.Errorf("unsupported schema type %q", t)
	}
}
