package main

import (
	"context"
	"strings"

	"github.com/agorasim/agora/kernels"
	"github.com/agorasim/agora/oracles"
	"github.com/reusee/dscope"
	"github.com/samber/lo"
)

type Module struct {
	dscope.Module
	Kernels kernels.Module
}

// Scorer is the default scoring backend for the binary: distinct words
// capped at 100. An inference-backed scorer replaces it in deployments
// that configure one.
func (Module) Scorer() oracles.Scorer {
	return wordScorer{}
}

type wordScorer struct{}

func (wordScorer) ScoreArtifact(ctx context.Context, artifactID string, artifactType string, content string) oracles.ScoreResult {
	words := lo.Uniq(strings.Fields(strings.ToLower(content)))
	return oracles.ScoreResult{
		Success: true,
		Score:   min(int64(len(words)), 100),
		Reason:  "Scored by word count",
	}
}
