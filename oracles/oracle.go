package oracles

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/agorasim/agora/logs"
	"github.com/samber/lo"
)

// ScoreResult is what the scoring pipeline reports for one submission.
type ScoreResult struct {
	Success bool
	Score   int64
	Reason  string
}

// Scorer is the scoring backend, typically an inference provider.
type Scorer interface {
	ScoreArtifact(ctx context.Context, artifactID string, artifactType string, content string) ScoreResult
}

// Oracle is the dedup gate in front of a Scorer: every normalized
// fingerprint scores at most once. The seen set lives on the Oracle
// instance, so isolated kernel instances can coexist in tests.
type Oracle struct {
	mu     sync.Mutex
	seen   map[string]bool
	scorer Scorer
	logger logs.Logger
}

func NewOracle(scorer Scorer, logger logs.Logger) *Oracle {
	return &Oracle{
		seen:   make(map[string]bool),
		scorer: scorer,
		logger: logger,
	}
}

// Fingerprint derives the dedup key: surrounding whitespace and letter
// case do not make a submission original.
func Fingerprint(content string) string {
	normalized := strings.ToLower(strings.TrimSpace(content))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// IsOriginal records the content's fingerprint and reports whether it
// was unseen. It is true exactly once per fingerprint.
func (o *Oracle) IsOriginal(content string) bool {
	fingerprint := Fingerprint(content)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.seen[fingerprint] {
		return false
	}
	o.seen[fingerprint] = true
	return true
}

// ScoreArtifact scores one submission. Duplicates never reach the
// backend: they score 0 with reason Duplicate.
func (o *Oracle) ScoreArtifact(ctx context.Context, artifactID string, artifactType string, content string) ScoreResult {
	if !o.IsOriginal(content) {
		o.logger.InfoContext(ctx, "duplicate submission",
			"artifact", artifactID,
		)
		return ScoreResult{
			Success: true,
			Score:   0,
			Reason:  "Duplicate",
		}
	}
	return o.scorer.ScoreArtifact(ctx, artifactID, artifactType, content)
}

// Fingerprints snapshots the seen set, for reporting.
func (o *Oracle) Fingerprints() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return lo.Keys(o.seen)
}
