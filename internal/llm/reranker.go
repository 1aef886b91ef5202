package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
)

// SuggestionReranker orders candidate texts by relevance to a query with a
// single ranking call. Used to surface the strongest remix suggestions
// first. On any failure it falls back to the original order.
type SuggestionReranker struct {
	LLM LLMClient
}

func NewSuggestionReranker(client LLMClient) *SuggestionReranker {
	return &SuggestionReranker{LLM: client}
}

func (r *SuggestionReranker) Rank(ctx context.Context, query string, docs []string) ([]int, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if len(docs) == 1 {
		return []int{0}, nil
	}

	docList := ""
	for i, d := range docs {
		content := d
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		docList += fmt.Sprintf("[%d] %s\n", i, content)
	}

	prompt := fmt.Sprintf(`You rank advertising strategy alternatives.
Goal: %s

Candidates:
%s

Rank the candidates above from strongest to weakest for the goal.
Output ONLY the indices in order, separated by commas.
Example: 0, 2, 1
Do not output any other text.`, query, docList)

	resp, err := r.LLM.Generate(ctx, prompt)
	if err != nil {
		return identity(len(docs)), nil
	}

	indices := parseIndices(resp)
	if !validPermutationPrefix(indices, len(docs)) {
		return identity(len(docs)), nil
	}
	// Append anything the model dropped, in original order.
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		seen[i] = true
	}
	for i := 0; i < len(docs); i++ {
		if !seen[i] {
			indices = append(indices, i)
		}
	}
	return indices, nil
}

func parseIndices(s string) []int {
	re := regexp.MustCompile(`\d+`)
	matches := re.FindAllString(s, -1)
	out := make([]int, 0, len(matches))
	for _, m := range matches {
		if n, err := strconv.Atoi(m); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func validPermutationPrefix(indices []int, n int) bool {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= n || seen[i] {
			return false
		}
		seen[i] = true
	}
	return len(indices) > 0
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
