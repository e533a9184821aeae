package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextArtifact_NameDefaultsToID(t *testing.T) {
	a := NewTextArtifact("hello")
	assert.NotEmpty(t, a.ID())
	assert.NotContains(t, a.ID(), "-")
	assert.Equal(t, a.ID(), a.Name())
	assert.Equal(t, ArtifactTypeText, a.Type())

	named := NewTextArtifact("hello", WithArtifactName("greeting"))
	assert.Equal(t, "greeting", named.Name())
}

func TestListArtifact_IsolatedFromCaller(t *testing.T) {
	items := []Artifact{NewTextArtifact("a"), NewTextArtifact("b")}
	list := NewListArtifact(items)
	items[0] = NewTextArtifact("changed")

	got := list.Items()
	assert.Equal(t, "a", got[0].String())
	got[1] = nil
	assert.NotNil(t, list.Items()[1])

	assert.Equal(t, 2, list.Len())
	assert.Equal(t, "a\n\nb", list.String())
}

func TestErrorArtifact_WrapsError(t *testing.T) {
	cause := errors.New("boom")
	a := NewErrorArtifactFromError(cause)
	assert.Equal(t, "boom", a.Message())
	assert.ErrorIs(t, a.Unwrap(), cause)
	assert.True(t, IsErrorArtifact(a))
	assert.False(t, IsErrorArtifact(NewTextArtifact("x")))
}

func TestFilterTextArtifacts_KeepsOrder(t *testing.T) {
	texts := FilterTextArtifacts([]Artifact{
		NewTextArtifact("one"),
		NewBlobArtifact([]byte{1}),
		NewInfoArtifact("info"),
		NewTextArtifact("two"),
	})
	require.Len(t, texts, 2)
	assert.Equal(t, "one", texts[0].Text())
	assert.Equal(t, "two", texts[1].Text())
}

func TestBlobArtifact_CopiesBytes(t *testing.T) {
	data := []byte{1, 2, 3}
	blob := NewBlobArtifact(data)
	data[0] = 9
	assert.Equal(t, []byte{1, 2, 3}, blob.Bytes())
}

func TestArtifactRecord_RoundTripKeepsIdentity(t *testing.T) {
	original := NewListArtifact([]Artifact{
		NewTextArtifact("text", WithArtifactName("t")),
		NewBlobArtifact([]byte("bin")),
	}, WithArtifactName("list"))

	record, err := NewArtifactRecord(original)
	require.NoError(t, err)
	require.Len(t, record.Items, 2)

	restored, err := record.ToArtifact()
	require.NoError(t, err)

	list, ok := restored.(*ListArtifact)
	require.True(t, ok)
	assert.Equal(t, original.ID(), list.ID())
	assert.Equal(t, "list", list.Name())
	items := list.Items()
	assert.Equal(t, "t", items[0].Name())
	assert.Equal(t, []byte("bin"), items[1].(*BlobArtifact).Bytes())
}

func TestArtifactRecord_UnknownType(t *testing.T) {
	_, err := ArtifactRecord{Type: "video"}.ToArtifact()
	assert.Error(t, err)
}

func TestRuleset_Render(t *testing.T) {
	rs := NewRuleset("Tone", "Be concise", "Cite sources")
	assert.Equal(t, "Ruleset name: Tone\n- Be concise\n- Cite sources", rs.Render())
}

func TestPromptStack_SystemPromptIncludesGroundingAndRules(t *testing.T) {
	stack := &PromptStack{
		Rulesets:  []Ruleset{NewRuleset("Tone", "Be concise")},
		Grounding: []string{"chunk one", "chunk two"},
	}
	stack.AddUserMessage("question")

	prompt := stack.SystemPrompt()
	assert.Contains(t, prompt, "chunk one\n\nchunk two")
	assert.Contains(t, prompt, "Ruleset name: Tone")
	assert.Equal(t, "question", stack.LastUserMessage())
}
