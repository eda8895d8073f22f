package ai

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
)

// Strategy names which variant produced a result.
type Strategy string

const (
	StrategyAI        Strategy = "ai"
	StrategyHeuristic Strategy = "heuristic"
)

// ErrUnavailable is the cause logged when no generator is configured.
var ErrUnavailable = errors.New("ai service is not configured")

// Degrade runs primary and falls back when it is nil or fails. The error is
// logged and never returned.
func Degrade[T any](
	ctx context.Context,
	logger *zap.Logger,
	component string,
	primary func(context.Context) (T, error),
	fallback func() T,
) (T, Strategy) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if primary == nil {
		logger.Debug("ai unavailable, using heuristic",
			zap.String("component", component),
			zap.Error(ErrUnavailable),
		)
		return fallback(), StrategyHeuristic
	}

	out, err := primary(ctx)
	if err == nil {
		return out, StrategyAI
	}

	logger.Warn("ai strategy failed, degrading to heuristic",
		zap.String("component", component),
		zap.String("strategy", string(StrategyHeuristic)),
		zap.Error(apperr.Upstream("ai "+component+" failed", err)),
	)

	return fallback(), StrategyHeuristic
}
