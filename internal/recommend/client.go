// Package recommend produces AI-generated book suggestions from the titles
// a user already owns. Provider output is untrusted: malformed or non-JSON
// responses fail the request with an error instead of crashing the caller.
package recommend

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultCount is how many suggestions one request asks for.
const DefaultCount = 6

// Recommendation is one suggested book.
type Recommendation struct {
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Reason string   `json:"reason"`
	Tags   []string `json:"tags"`
}

// LLMClient is the text-generation primitive the service depends on.
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiClient implements LLMClient using the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(0.7)),
		MaxOutputTokens: 2048,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}, config)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", nil
}

// Service turns an owned-titles list into a fixed-size suggestion list.
type Service struct {
	llm   LLMClient
	count int
}

func NewService(llm LLMClient, count int) *Service {
	if count <= 0 {
		count = DefaultCount
	}
	return &Service{llm: llm, count: count}
}

// Suggest returns exactly s.count recommendations based on owned titles.
func (s *Service) Suggest(ctx context.Context, ownedTitles []string) ([]Recommendation, error) {
	if s.llm == nil {
		return nil, fmt.Errorf("recommendation service unavailable")
	}

	raw, err := s.llm.GenerateContent(ctx, buildPrompt(ownedTitles, s.count))
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	recs, err := ParseRecommendations(raw)
	if err != nil {
		return nil, err
	}
	if len(recs) > s.count {
		recs = recs[:s.count]
	}
	return recs, nil
}

func buildPrompt(ownedTitles []string, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a book recommendation engine. The reader owns these books:\n")
	for _, title := range ownedTitles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	fmt.Fprintf(&b, "\nRecommend exactly %d books they do not own yet. ", count)
	b.WriteString(`Respond with a JSON array only, no prose, where each element is ` +
		`{"title": string, "author": string, "reason": string, "tags": [string]}.`)
	return b.String()
}
