package matching

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
)

// Scorer rates one posting against resume text. It must not fail.
type Scorer interface {
	Score(ctx context.Context, resumeText string, job jobs.Posting) Match
}

// Engine prefers the AI scorer and degrades to the heuristic one.
type Engine struct {
	ai        *AIScorer
	heuristic *Heuristic
	logger    *zap.Logger
}

// NewEngine builds an engine. A nil generator means AI scoring is off.
// intn is the jitter source for the heuristic; nil means math/rand.
func NewEngine(generator ai.Generator, intn func(int) int, log *zap.Logger) *Engine {
	log = logger.WithFields(log)

	e := &Engine{
		heuristic: NewHeuristic(intn),
		logger:    log,
	}
	if generator != nil {
		e.ai = NewAIScorer(generator, log)
	}
	return e
}

func (e *Engine) Score(ctx context.Context, resumeText string, job jobs.Posting) Match {
	var primary func(context.Context) (Match, error)
	if e.ai != nil {
		primary = func(ctx context.Context) (Match, error) {
			return e.ai.Score(ctx, resumeText, job)
		}
	}

	match, _ := ai.Degrade(ctx, e.logger.With(zap.String("job_id", job.ID)), "scorer", primary, func() Match {
		return e.heuristic.Score(resumeText, job)
	})
	return match
}
