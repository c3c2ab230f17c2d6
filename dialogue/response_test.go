package dialogue

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneResponseJSON(suffix string) string {
	var b strings.Builder
	b.WriteString("{")
	for i, name := range SceneFields.Names() {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"` + name + `":"` + name + suffix + `"`)
	}
	b.WriteString("}")
	return b.String()
}

func TestParseResponse_PreservesOrderAndValues(t *testing.T) {
	t.Parallel()

	r, err := ParseResponse(`{"zeta":"last letter","alpha":"first letter","mid":"é ünïcode"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Keys())
	assert.Equal(t, 3, r.Len())

	v, ok := r.Get("mid")
	require.True(t, ok)
	assert.Equal(t, "é ünïcode", v)
}

func TestPrintResponse_RoundTrip(t *testing.T) {
	t.Parallel()

	text := sceneResponseJSON(" text")
	r, err := ParseResponse(text)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, PrintResponse(&out, r))
	assert.Equal(t, text+"\n", out.String())
}

func TestParseResponse_RejectsWrappedJSON(t *testing.T) {
	t.Parallel()

	_, err := ParseResponse(`Sure! Here is your JSON: {"npcResponse":"hi"} Hope that helps.`)
	require.ErrorIs(t, err, ErrResponseParse)

	r, err := ParseResponse("\n  {\"npcResponse\":\"hi\"}  \n")
	require.NoError(t, err)
	assert.Equal(t, []string{"npcResponse"}, r.Keys())
}

func TestResponse_KeepsMarkupUnescaped(t *testing.T) {
	t.Parallel()

	text := `{"npcResponse":"<b>Run & hide</b>","actionDescription":"She whispers \"now\" & bolts."}`
	r, err := ParseResponse(text)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, PrintResponse(&out, r))
	assert.Equal(t, text+"\n", out.String())

	path := filepath.Join(t.TempDir(), ResponseFileName)
	require.NoError(t, WriteResponseFile(path, r))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"npcResponse": "<b>Run & hide</b>"`)
	assert.NotContains(t, string(b), `\u003c`)
}

func TestWriteResponseFile_IndentedAndOverwrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ResponseFileName)

	first, err := ParseResponse(sceneResponseJSON(" first response with extra padding"))
	require.NoError(t, err)
	require.NoError(t, WriteResponseFile(path, first))

	second, err := ParseResponse(`{"npcDialogue":"second"}`)
	require.NoError(t, err)
	require.NoError(t, WriteResponseFile(path, second))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"npcDialogue\": \"second\"\n}\n", string(b))

	reread, err := ParseResponse(string(b))
	require.NoError(t, err)
	assert.Equal(t, []string{"npcDialogue"}, reread.Keys())
}

func TestWriteResponseFile_RoundTripKeepsAllFields(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ResponseFileName)
	r, err := ParseResponse(sceneResponseJSON("!"))
	require.NoError(t, err)
	require.NoError(t, WriteResponseFile(path, r))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	back, err := ParseResponse(string(b))
	require.NoError(t, err)

	assert.Equal(t, SceneFields.Names(), back.Keys())
	for _, name := range SceneFields.Names() {
		v, ok := back.Get(name)
		require.True(t, ok)
		assert.Equal(t, name+"!", v)
	}
}

func TestResponse_Missing(t *testing.T) {
	t.Parallel()

	r := NewResponse("npcResponse", "hi", "npcFeelings", "calm")
	assert.Equal(t, []string{"otherResponse", "otherFeelings", "actionDescription"}, r.Missing(ReplyFields))
}

func TestEmitters_RejectNil(t *testing.T) {
	t.Parallel()

	require.Error(t, PrintResponse(&bytes.Buffer{}, nil))
	require.Error(t, WriteResponseFile(filepath.Join(t.TempDir(), "x.json"), nil))
	require.Error(t, WriteResponseFile("", NewResponse()))
}
