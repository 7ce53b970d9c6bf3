package app

import (
	"context"
	"fmt"
	"strings"

	"inkwell/internal/models"
)

// placeholderInsight is substituted when analysis fails: enrichment,
// never a correctness gate.
const placeholderInsight = "analysis unavailable"

// Analyzer produces a best-effort quality score and insight for a content
// session before it is published.
type Analyzer interface {
	Analyze(ctx context.Context, session *models.ContentSession) (score int, insight string, err error)
}

// HeuristicAnalyzer scores content from its shape alone: snippet count
// and word volume. Deterministic, no external calls.
type HeuristicAnalyzer struct{}

func (HeuristicAnalyzer) Analyze(_ context.Context, session *models.ContentSession) (int, string, error) {
	if session == nil {
		return 0, "", fmt.Errorf("no session to analyze")
	}

	words := 0
	fragments := 0
	for _, snippet := range session.Snippets {
		body := strings.TrimSpace(snippet.Body)
		if body == "" {
			continue
		}
		fragments++
		words += len(strings.Fields(body))
	}
	if fragments == 0 {
		return 0, "", fmt.Errorf("session %s has no analyzable text", session.ID)
	}

	score := 40 + fragments*5 + words/20
	if score > 100 {
		score = 100
	}

	insight := fmt.Sprintf("%d fragments, %d words", fragments, words)
	switch {
	case words < 50:
		insight += "; very short for a published piece"
	case words > 2000:
		insight += "; long read, consider splitting"
	default:
		insight += "; comfortable reading length"
	}

	return score, insight, nil
}
