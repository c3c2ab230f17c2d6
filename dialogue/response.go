package dialogue

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/theimaginaryfoundation/npc-dialogue/dialogue/fileutils"
)

// ResponseFileName is where the scene tool writes its output by default.
const ResponseFileName = "response.json"

// responseIndent matches the 4-space layout of response.json.
const responseIndent = "    "

// Response maps each schema field name to the generated content, in the order the model
// returned them.
type Response struct {
	fields *orderedmap.OrderedMap[string, any]
}

// NewResponse builds a Response from alternating key/value pairs, keeping their order. Mostly useful in tests.
func NewResponse(pairs ...string) *Response {
	r := &Response{fields: orderedmap.New[string, any]()}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.fields.Set(pairs[i], pairs[i+1])
	}
	return r
}

// ParseResponse decodes model output into a Response. The reply must be a bare JSON
// object; surrounding whitespace is the only slack. Field content is trusted.
func ParseResponse(text string) (*Response, error) {
	fields := orderedmap.New[string, any]()
	if err := fileutils.DecodeJSONObject(text, fields); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResponseParse, err)
	}
	return &Response{fields: fields}, nil
}

// Len returns the number of fields.
func (r *Response) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns field names in response order.
func (r *Response) Keys() []string {
	if r == nil || r.fields == nil {
		return nil
	}
	keys := make([]string, 0, r.fields.Len())
	for p := r.fields.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Get returns the value for a field.
func (r *Response) Get(key string) (any, bool) {
	if r == nil || r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

// Missing lists the names in set that the response does not contain.
func (r *Response) Missing(set FieldSet) []string {
	var missing []string
	for _, name := range set.Names() {
		if _, ok := r.Get(name); !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// MarshalJSON writes the fields in order. Keys and values are encoded without HTML
// escaping so the output matches what the model wrote.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r == nil || r.fields == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := fileutils.MarshalJSON(pair.Key, "")
		if err != nil {
			return nil, err
		}
		v, err := fileutils.MarshalJSON(pair.Value, "")
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", pair.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PrintResponse writes the response to w as a single line of JSON.
func PrintResponse(w io.Writer, r *Response) error {
	if r == nil {
		return errors.New("PrintResponse: response is nil")
	}
	b, err := fileutils.MarshalJSON(r, "")
	if err != nil {
		return fmt.Errorf("PrintResponse: marshal: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
		return fmt.Errorf("PrintResponse: write: %w", err)
	}
	return nil
}

// WriteResponseFile replaces path with the response as 4-space indented JSON.
func WriteResponseFile(path string, r *Response) error {
	if path == "" {
		return errors.New("WriteResponseFile: path is empty")
	}
	if r == nil {
		return errors.New("WriteResponseFile: response is nil")
	}
	if err := fileutils.WriteJSONFileAtomic(path, r, responseIndent); err != nil {
		return fmt.Errorf("WriteResponseFile: %w", err)
	}
	return nil
}
