package recommend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseRecommendations decodes the model's response into recommendation
// records. Models often wrap JSON in markdown code fences; those are
// stripped before decoding. Anything that still fails to decode fails the
// request.
func ParseRecommendations(raw string) ([]Recommendation, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty recommendation response")
	}

	var recs []Recommendation
	if err := json.Unmarshal([]byte(cleaned), &recs); err != nil {
		return nil, fmt.Errorf("malformed recommendation response: %w", err)
	}

	out := recs[:0]
	for _, r := range recs {
		if r.Title == "" {
			continue
		}
		if r.Author == "" {
			r.Author = "Unknown author"
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("recommendation response contained no usable entries")
	}
	return out, nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
