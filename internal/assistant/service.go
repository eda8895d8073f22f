package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/tracker"
)

type Listings interface {
	ListJobs(ctx context.Context, filters jobs.Filters, resumeText string) ([]matching.ScoredPosting, error)
}

type Applications interface {
	List(ctx context.Context, userID, statusFilter string) ([]tracker.Application, error)
}

// Service answers chat messages for a user.
type Service struct {
	router       *Router
	listings     Listings
	applications Applications
	resumes      matching.ResumeSource
	logger       *zap.Logger
}

func NewService(router *Router, listings Listings, applications Applications, resumes matching.ResumeSource, log *zap.Logger) *Service {
	return &Service{
		router:       router,
		listings:     listings,
		applications: applications,
		resumes:      resumes,
		logger:       logger.WithComponent(log, "assistant"),
	}
}

// Chat loads the user's context and routes message against it.
func (s *Service) Chat(ctx context.Context, userID, message string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return Reply{}, apperr.BadInput("message is required")
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return Reply{}, err
	}

	reply := s.router.Route(ctx, message, snap)

	logger.WithUser(s.logger, userID).Debug("chat routed",
		zap.String("type", string(reply.Type)),
		zap.Int("jobs", len(snap.Jobs)),
		zap.Int("applications", len(snap.Applications)),
	)

	return reply, nil
}

func (s *Service) snapshot(ctx context.Context, userID string) (Snapshot, error) {
	var snap Snapshot

	postings, err := s.listings.ListJobs(ctx, jobs.Filters{}, "")
	if err != nil {
		return snap, apperr.Internal(fmt.Errorf("load postings: %w", err))
	}
	snap.Jobs = postings

	if userID == "" {
		return snap, nil
	}

	apps, err := s.applications.List(ctx, userID, "")
	if err != nil {
		return snap, err
	}
	snap.Applications = apps

	text, _, err := s.resumes.RawText(ctx, userID)
	if err != nil {
		return snap, err
	}
	snap.ResumeText = text

	return snap, nil
}

// MergeFilters folds a reply's sparse filter into the current filter state.
// Text replies leave it untouched.
func MergeFilters(current jobs.Filters, reply Reply) jobs.Filters {
	if reply.Type != ReplyJobFilter {
		return current
	}
	return current.Apply(reply.Filters)
}
