// Package tracker is the application ledger: one ordered list of
// applications per user with an append-only timeline on each.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/storage"
)

const (
	keyPrefix      = "applications:"
	submittedNote  = "Application submitted"
	duplicateMsg   = "Already applied to this job"
	notFoundMsg    = "Application not found"
	updateNoteTmpl = "Status updated to %s"
)

type Event struct {
	Status Status    `json:"status"`
	Date   time.Time `json:"date"`
	Note   string    `json:"note"`
}

type Application struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	JobID     string     `json:"jobId"`
	JobTitle  string     `json:"jobTitle"`
	Company   string     `json:"company"`
	Status    Status     `json:"status"`
	AppliedAt time.Time  `json:"appliedAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Timeline  []Event    `json:"timeline"`
}

// Submission describes the job a user confirms applying to.
type Submission struct {
	JobID    string
	JobTitle string
	Company  string
	// Status is the initial status; empty means applied.
	Status string
}

// Ledger persists every user's applications under "applications:{userID}".
// All writes go through storage.Mutate so concurrent writers do not lose
// updates.
type Ledger struct {
	store  storage.Store
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

func New(store storage.Store, log *zap.Logger) *Ledger {
	return &Ledger{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
		logger: logger.WithComponent(log, "ledger"),
	}
}

func key(userID string) string {
	return keyPrefix + userID
}

// Create records a new application. A second application for the same job
// fails with a conflict.
func (l *Ledger) Create(ctx context.Context, userID string, sub Submission) (Application, error) {
	if userID == "" {
		return Application{}, apperr.BadInput("userId is required")
	}
	if sub.JobID == "" {
		return Application{}, apperr.BadInput("jobId is required")
	}

	status := StatusApplied
	if sub.Status != "" {
		parsed, err := ParseStatus(sub.Status)
		if err != nil {
			return Application{}, err
		}
		status = parsed
	}

	now := l.now()
	app := Application{
		ID:        l.newID(),
		UserID:    userID,
		JobID:     sub.JobID,
		JobTitle:  sub.JobTitle,
		Company:   sub.Company,
		Status:    status,
		AppliedAt: now,
		Timeline: []Event{{
			Status: StatusApplied,
			Date:   now,
			Note:   submittedNote,
		}},
	}

	err := l.mutate(ctx, userID, func(apps []Application) ([]Application, error) {
		for _, existing := range apps {
			if existing.JobID == sub.JobID {
				return nil, apperr.Conflict(duplicateMsg)
			}
		}
		return append(apps, app), nil
	})
	if err != nil {
		return Application{}, err
	}

	logger.WithUser(l.logger, userID).Info("application created",
		zap.String("application_id", app.ID),
		zap.String("job_id", app.JobID),
		zap.String("status", string(app.Status)),
	)

	return app, nil
}

// List returns the user's applications in creation order, optionally
// narrowed to one status.
func (l *Ledger) List(ctx context.Context, userID, statusFilter string) ([]Application, error) {
	apps, _, err := storage.Load[[]Application](ctx, l.store, key(userID))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("load applications: %w", err))
	}

	out := make([]Application, 0, len(apps))
	for _, app := range apps {
		if app.Status.MatchesFilter(statusFilter) {
			out = append(out, app)
		}
	}
	return out, nil
}

// UpdateStatus moves an application to status and appends one timeline
// event. An empty note is replaced with a generated one.
func (l *Ledger) UpdateStatus(ctx context.Context, userID, applicationID, status, note string) (Application, error) {
	next, err := ParseStatus(status)
	if err != nil {
		return Application{}, err
	}
	if note == "" {
		note = fmt.Sprintf(updateNoteTmpl, next)
	}

	var updated Application
	err = l.mutate(ctx, userID, func(apps []Application) ([]Application, error) {
		for i := range apps {
			if apps[i].ID != applicationID {
				continue
			}
			now := l.now()
			apps[i].Status = next
			apps[i].UpdatedAt = &now
			apps[i].Timeline = append(apps[i].Timeline, Event{Status: next, Date: now, Note: note})
			updated = apps[i]
			return apps, nil
		}
		return nil, apperr.NotFound(notFoundMsg)
	})
	if err != nil {
		return Application{}, err
	}

	logger.WithUser(l.logger, userID).Info("application status updated",
		zap.String("application_id", applicationID),
		zap.String("status", string(next)),
		zap.Int("timeline", len(updated.Timeline)),
	)

	return updated, nil
}

// Delete removes an application. Unknown ids are ignored.
func (l *Ledger) Delete(ctx context.Context, userID, applicationID string) error {
	return l.mutate(ctx, userID, func(apps []Application) ([]Application, error) {
		kept := apps[:0]
		for _, app := range apps {
			if app.ID != applicationID {
				kept = append(kept, app)
			}
		}
		return kept, nil
	})
}

// Confirm turns the answer to "did you apply?" into a ledger entry. Browsing
// records nothing and returns ok=false.
func (l *Ledger) Confirm(ctx context.Context, userID string, sub Submission, answer Status) (Application, bool, error) {
	if answer == StatusBrowsing {
		return Application{}, false, nil
	}
	sub.Status = string(answer)
	app, err := l.Create(ctx, userID, sub)
	if err != nil {
		return Application{}, false, err
	}
	return app, true, nil
}

func (l *Ledger) mutate(ctx context.Context, userID string, fn func([]Application) ([]Application, error)) error {
	err := storage.Mutate(ctx, l.store, key(userID), func(apps []Application, _ bool) ([]Application, error) {
		if apps == nil {
			apps = []Application{}
		}
		return fn(apps)
	})
	if err == nil {
		return nil
	}

	var classified *apperr.Error
	if errors.As(err, &classified) {
		return err
	}
	return apperr.Internal(fmt.Errorf("update applications: %w", err))
}
