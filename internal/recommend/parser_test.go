package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `[
	{"title": "Hyperion", "author": "Dan Simmons", "reason": "Epic scope.", "tags": ["sci-fi"]},
	{"title": "The Dispossessed", "author": "Ursula K. Le Guin", "reason": "Thoughtful.", "tags": ["sci-fi", "classic"]}
]`

func TestParseRecommendations(t *testing.T) {
	recs, err := ParseRecommendations(validResponse)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Hyperion", recs[0].Title)
	assert.Equal(t, []string{"sci-fi", "classic"}, recs[1].Tags)
}

func TestParseStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	recs, err := ParseRecommendations(fenced)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestParseMalformedFailsRequest(t *testing.T) {
	for name, raw := range map[string]string{
		"prose":     "Here are some books you might like!",
		"empty":     "",
		"truncated": `[{"title": "Hyperion", "auth`,
		"object":    `{"title": "Hyperion"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseRecommendations(raw)
			assert.Error(t, err)
		})
	}
}

func TestParseDropsTitlelessEntries(t *testing.T) {
	raw := `[{"title": "", "author": "x"}, {"title": "Hyperion"}]`
	recs, err := ParseRecommendations(raw)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Hyperion", recs[0].Title)
	assert.Equal(t, "Unknown author", recs[0].Author)
}

type fakeLLM struct {
	response string
	err      error
	prompt   string
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func TestSuggestCapsAtCount(t *testing.T) {
	llm := &fakeLLM{response: `[
		{"title": "A"}, {"title": "B"}, {"title": "C"}, {"title": "D"}
	]`}

	svc := NewService(llm, 3)
	recs, err := svc.Suggest(context.Background(), []string{"Dune"})
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.Contains(t, llm.prompt, "Dune")
	assert.Contains(t, llm.prompt, "exactly 3")
}

func TestSuggestProviderFailure(t *testing.T) {
	svc := NewService(&fakeLLM{err: errors.New("quota exhausted")}, 3)
	_, err := svc.Suggest(context.Background(), []string{"Dune"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "quota exhausted"))
}

func TestSuggestMalformedProviderOutput(t *testing.T) {
	svc := NewService(&fakeLLM{response: "I'm sorry, I can't do that."}, 3)
	_, err := svc.Suggest(context.Background(), []string{"Dune"})
	assert.Error(t, err)
}
