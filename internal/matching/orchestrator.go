package matching

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
)

const (
	DefaultMaxConcurrency    = 8
	DefaultBestMatchesSample = 20
	DefaultBestMatchesLimit  = 8
)

// ResumeSource yields the raw resume text on file for a user.
type ResumeSource interface {
	RawText(ctx context.Context, userID string) (string, bool, error)
}

type Config struct {
	MaxConcurrency    int `mapstructure:"max-concurrency"`
	BestMatchesSample int `mapstructure:"best-matches-sample"`
	BestMatchesLimit  int `mapstructure:"best-matches-limit"`
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.BestMatchesSample <= 0 {
		c.BestMatchesSample = DefaultBestMatchesSample
	}
	if c.BestMatchesLimit <= 0 {
		c.BestMatchesLimit = DefaultBestMatchesLimit
	}
	return c
}

// Orchestrator ties the aggregator, the scorer and stored resumes together
// into ranked listings.
type Orchestrator struct {
	aggregator jobs.Aggregator
	scorer     Scorer
	resumes    ResumeSource
	cfg        Config
	logger     *zap.Logger
}

func NewOrchestrator(aggregator jobs.Aggregator, scorer Scorer, resumes ResumeSource, cfg Config, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		aggregator: aggregator,
		scorer:     scorer,
		resumes:    resumes,
		cfg:        cfg.withDefaults(),
		logger:     logger.WithComponent(log, "orchestrator"),
	}
}

// ListJobs fetches postings for filters. With resume text every posting is
// scored and the list is ranked; the minimum score filter is applied last,
// so without a resume it removes everything.
func (o *Orchestrator) ListJobs(ctx context.Context, filters jobs.Filters, resumeText string) ([]ScoredPosting, error) {
	postings, err := o.aggregator.Search(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("search postings: %w", err)
	}

	var result []ScoredPosting
	if resumeText != "" {
		result = o.rank(ctx, postings, resumeText)
	} else {
		result = unscored(postings)
	}

	if filters.MinMatchScore > 0 {
		kept := result[:0]
		for _, p := range result {
			if p.MatchScore() >= filters.MinMatchScore {
				kept = append(kept, p)
			}
		}
		result = kept
	}

	o.logger.Debug("listed postings",
		zap.Int("fetched", len(postings)),
		zap.Int("returned", len(result)),
		zap.Bool("scored", resumeText != ""),
	)

	return result, nil
}

// BestMatches ranks a bounded sample of unfiltered postings and returns the
// top of it. No resume yields an empty result.
func (o *Orchestrator) BestMatches(ctx context.Context, resumeText string) ([]ScoredPosting, error) {
	if resumeText == "" {
		return []ScoredPosting{}, nil
	}

	postings, err := o.aggregator.Search(ctx, jobs.Filters{})
	if err != nil {
		return nil, fmt.Errorf("search postings: %w", err)
	}

	if len(postings) > o.cfg.BestMatchesSample {
		postings = postings[:o.cfg.BestMatchesSample]
	}

	ranked := o.rank(ctx, postings, resumeText)
	if len(ranked) > o.cfg.BestMatchesLimit {
		ranked = ranked[:o.cfg.BestMatchesLimit]
	}

	return ranked, nil
}

// Job looks a posting up by the aggregator's id.
func (o *Orchestrator) Job(ctx context.Context, id string) (jobs.Posting, error) {
	posting, ok, err := jobs.Find(ctx, o.aggregator, id)
	if err != nil {
		return jobs.Posting{}, fmt.Errorf("search postings: %w", err)
	}
	if !ok {
		return jobs.Posting{}, apperr.NotFound("Job not found")
	}
	return posting, nil
}

// ListJobsFor is ListJobs scored against the user's stored resume, if any.
func (o *Orchestrator) ListJobsFor(ctx context.Context, userID string, filters jobs.Filters) ([]ScoredPosting, error) {
	text, err := o.resumeText(ctx, userID)
	if err != nil {
		return nil, err
	}
	return o.ListJobs(ctx, filters, text)
}

// BestMatchesFor is BestMatches against the user's stored resume.
func (o *Orchestrator) BestMatchesFor(ctx context.Context, userID string) ([]ScoredPosting, error) {
	text, err := o.resumeText(ctx, userID)
	if err != nil {
		return nil, err
	}
	return o.BestMatches(ctx, text)
}

func (o *Orchestrator) resumeText(ctx context.Context, userID string) (string, error) {
	if userID == "" || o.resumes == nil {
		return "", nil
	}
	text, _, err := o.resumes.RawText(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load resume: %w", err)
	}
	return text, nil
}

// rank scores postings concurrently and sorts them by descending score.
// Equal scores keep the aggregator's order.
func (o *Orchestrator) rank(ctx context.Context, postings []jobs.Posting, resumeText string) []ScoredPosting {
	result := make([]ScoredPosting, len(postings))

	var g errgroup.Group
	g.SetLimit(o.cfg.MaxConcurrency)
	for i, posting := range postings {
		g.Go(func() error {
			match := o.scorer.Score(ctx, resumeText, posting)
			result[i] = ScoredPosting{Posting: posting, Match: &match}
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MatchScore() > result[j].MatchScore()
	})

	return result
}

func unscored(postings []jobs.Posting) []ScoredPosting {
	out := make([]ScoredPosting, len(postings))
	for i, p := range postings {
		out[i] = ScoredPosting{Posting: p}
	}
	return out
}
