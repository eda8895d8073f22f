package jobs

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
)

// ErrNoAggregator is the cause logged when no aggregator is configured.
var ErrNoAggregator = errors.New("no aggregator configured")

type fallback struct {
	primary Aggregator
	samples func() []Posting
	logger  *zap.Logger
}

// WithFallback wraps primary so that a failing or missing aggregator yields the
// built-in sample postings instead of an error.
func WithFallback(primary Aggregator, logger *zap.Logger) Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fallback{
		primary: primary,
		samples: SamplePostings,
		logger:  logger,
	}
}

func (f *fallback) Search(ctx context.Context, filters Filters) ([]Posting, error) {
	err := ErrNoAggregator
	if f.primary != nil {
		var postings []Posting
		postings, err = f.primary.Search(ctx, filters)
		if err == nil {
			return postings, nil
		}
	}

	f.logger.Warn("job aggregator unavailable, serving sample postings",
		zap.String("component", "aggregator"),
		zap.String("strategy", "samples"),
		zap.Error(apperr.Upstream("job aggregator unavailable", err)),
	)

	return f.samples(), nil
}
