package modules

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/ragkit/internal/models"
	"github.com/ternarybob/ragkit/internal/rag"
	"github.com/ternarybob/ragkit/internal/services/chunker"
)

// capturingDriver records the last prompt stack and answers with a fixed text
type capturingDriver struct {
	stack    *models.PromptStack
	answer   string
	err      error
	noAnswer bool
}

func (d *capturingDriver) Run(ctx context.Context, stack *models.PromptStack) (*models.TextArtifact, error) {
	d.stack = stack
	if d.err != nil || d.noAnswer {
		return nil, d.err
	}
	return models.NewTextArtifact(d.answer), nil
}

func (d *capturingDriver) ModelName() string { return "capturing" }

type fixedVectorStore struct {
	entries   []models.VectorEntry
	err       error
	count     int
	namespace string
}

func (s *fixedVectorStore) UpsertTexts(ctx context.Context, namespace string, texts []string) ([]string, error) {
	return nil, nil
}

func (s *fixedVectorStore) Query(ctx context.Context, query string, count int, namespace string) ([]models.VectorEntry, error) {
	s.count = count
	s.namespace = namespace
	return s.entries, s.err
}

func (s *fixedVectorStore) Close() error { return nil }

func TestPromptResponseModule_AppendsOneOutput(t *testing.T) {
	driver := &capturingDriver{answer: "answer"}
	module := NewPromptResponseModule(driver, []models.Ruleset{models.NewRuleset("Tone", "Be brief")}, nil, 0, arbor.NewLogger())

	rc := rag.NewContext("What is it?", []*models.TextArtifact{models.NewTextArtifact("chunk")})
	rc.AddOutputs(models.NewTextArtifact("earlier"), models.NewBlobArtifact([]byte{1}))

	require.NoError(t, module.Run(context.Background(), rc))

	outputs := rc.Outputs()
	require.Len(t, outputs, 3)
	assert.Equal(t, "answer", outputs[2].String())

	require.NotNil(t, driver.stack)
	assert.Equal(t, []string{"chunk", "earlier"}, driver.stack.Grounding)
	assert.Equal(t, "What is it?", driver.stack.LastUserMessage())
	assert.Len(t, driver.stack.Rulesets, 1)
	assert.Equal(t, PromptResponseModuleName, module.Name())
}

func TestPromptResponseModule_DriverErrorPropagates(t *testing.T) {
	boom := errors.New("quota exceeded")
	module := NewPromptResponseModule(&capturingDriver{err: boom}, nil, nil, 0, arbor.NewLogger())

	rc := rag.NewContext("q", nil)
	err := module.Run(context.Background(), rc)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rc.Outputs())
}

func TestPromptResponseModule_NilArtifactIsError(t *testing.T) {
	module := NewPromptResponseModule(&capturingDriver{noAnswer: true}, nil, nil, 0, arbor.NewLogger())

	rc := rag.NewContext("q", []*models.TextArtifact{models.NewTextArtifact("chunk")})
	err := module.Run(context.Background(), rc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "returned no artifact")
	assert.Empty(t, rc.Outputs())
}

func TestPromptResponseModule_TrimsGroundingToBudget(t *testing.T) {
	tokenizer, err := chunker.DefaultTokenizer()
	require.NoError(t, err)

	driver := &capturingDriver{answer: "ok"}
	chunks := []*models.TextArtifact{
		models.NewTextArtifact("first chunk"),
		models.NewTextArtifact(strings.Repeat("filler ", 500)),
		models.NewTextArtifact("never reached"),
	}

	overhead := tokenizer.CountTokens((&models.PromptStack{}).SystemPrompt()) + tokenizer.CountTokens("q")
	budget := overhead + tokenizer.CountTokens("first chunk") + 20

	module := NewPromptResponseModule(driver, nil, tokenizer, budget, arbor.NewLogger())
	require.NoError(t, module.Run(context.Background(), rag.NewContext("q", chunks)))

	grounding := driver.stack.Grounding
	require.Len(t, grounding, 2)
	assert.Equal(t, "first chunk", grounding[0])
	assert.LessOrEqual(t, tokenizer.CountTokens(grounding[1]), 20)
	assert.True(t, strings.HasPrefix(grounding[1], "filler"))
}

func TestPromptResponseModule_TrimmedGroundingIsValidUTF8(t *testing.T) {
	tokenizer, err := chunker.DefaultTokenizer()
	require.NoError(t, err)

	text := strings.Repeat("日本語のテキストです。😀😀😀", 20)
	overhead := tokenizer.CountTokens((&models.PromptStack{}).SystemPrompt()) + tokenizer.CountTokens("q")

	for extra := 1; extra <= 16; extra++ {
		driver := &capturingDriver{answer: "ok"}
		module := NewPromptResponseModule(driver, nil, tokenizer, overhead+extra, arbor.NewLogger())
		require.NoError(t, module.Run(context.Background(), rag.NewContext("q", []*models.TextArtifact{models.NewTextArtifact(text)})))

		for _, grounding := range driver.stack.Grounding {
			assert.True(t, utf8.ValidString(grounding), "budget %d produced invalid UTF-8 %q", extra, grounding)
			assert.True(t, strings.HasPrefix(text, grounding))
		}
	}
}

func TestTextChunksResponseModule_ListsChunks(t *testing.T) {
	rc := rag.NewContext("q", []*models.TextArtifact{models.NewTextArtifact("a"), models.NewTextArtifact("b")})
	require.NoError(t, NewTextChunksResponseModule().Run(context.Background(), rc))

	outputs := rc.Outputs()
	require.Len(t, outputs, 1)
	list, ok := outputs[0].(*models.ListArtifact)
	require.True(t, ok)
	assert.Equal(t, "a\n\nb", list.String())
}

func TestVectorStoreRetrievalModule_AppendsChunks(t *testing.T) {
	store := &fixedVectorStore{entries: []models.VectorEntry{
		{ID: "1", Text: "best"},
		{ID: "2", Text: "next"},
	}}
	module := NewVectorStoreRetrievalModule(store, "docs", 0, arbor.NewLogger())

	rc := rag.NewContext("q", []*models.TextArtifact{models.NewTextArtifact("given")})
	require.NoError(t, module.Run(context.Background(), rc))

	chunks := rc.TextChunks()
	require.Len(t, chunks, 3)
	assert.Equal(t, "given", chunks[0].Text())
	assert.Equal(t, "best", chunks[1].Text())
	assert.Equal(t, DefaultTopN, store.count)
	assert.Equal(t, "docs", store.namespace)
}

func TestVectorStoreRetrievalModule_ErrorPropagates(t *testing.T) {
	boom := errors.New("qdrant unavailable")
	module := NewVectorStoreRetrievalModule(&fixedVectorStore{err: boom}, "", 3, arbor.NewLogger())

	err := module.Run(context.Background(), rag.NewContext("q", nil))
	assert.ErrorIs(t, err, boom)
}

func TestModulesInEngine_RetrievalFeedsResponse(t *testing.T) {
	store := &fixedVectorStore{entries: []models.VectorEntry{{ID: "1", Text: "retrieved fact"}}}
	driver := &capturingDriver{answer: "done"}

	engine := rag.NewEngine(arbor.NewLogger(),
		rag.NewRetrievalStage(NewVectorStoreRetrievalModule(store, "", 1, arbor.NewLogger())),
		rag.NewResponseStage(NewPromptResponseModule(driver, nil, nil, 0, arbor.NewLogger())),
	)

	rc, err := engine.Process(context.Background(), rag.NewContext("q", nil))
	require.NoError(t, err)
	assert.Len(t, rc.Outputs(), 1)
	assert.Equal(t, []string{"retrieved fact"}, driver.stack.Grounding)
}
