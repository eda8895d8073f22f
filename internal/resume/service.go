package resume

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/storage"
)

const keyPrefix = "resume:"

// Service stores at most one resume per user under "resume:{userID}".
type Service struct {
	store  storage.Store
	parser *Parser
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store storage.Store, parser *Parser, log *zap.Logger) *Service {
	return &Service{
		store:  store,
		parser: parser,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.WithComponent(log, "resume"),
	}
}

func key(userID string) string {
	return keyPrefix + userID
}

// Upload extracts, parses and stores a resume, replacing any previous one.
func (s *Service) Upload(ctx context.Context, userID, fileName, contentType string, data []byte) (Resume, error) {
	if userID == "" {
		return Resume{}, apperr.BadInput("user id is required")
	}

	text, err := Extract(fileName, contentType, data)
	if err != nil {
		return Resume{}, err
	}

	r := Resume{
		RawText:    text,
		FileName:   fileName,
		UploadedAt: s.now(),
		Parsed:     s.parser.Parse(ctx, text),
	}

	if err := storage.Save(ctx, s.store, key(userID), r); err != nil {
		return Resume{}, apperr.Internal(fmt.Errorf("store resume: %w", err))
	}

	logger.WithUser(s.logger, userID).Info("resume stored",
		zap.String("file", fileName),
		zap.Int("text_length", len(text)),
		zap.Int("skills", len(r.Parsed.Skills)),
	)

	return r, nil
}

func (s *Service) Get(ctx context.Context, userID string) (Resume, error) {
	r, found, err := storage.Load[Resume](ctx, s.store, key(userID))
	if err != nil {
		return Resume{}, apperr.Internal(fmt.Errorf("load resume: %w", err))
	}
	if !found {
		return Resume{}, apperr.NotFound("Resume not found")
	}
	return r, nil
}

// Delete removes the user's resume. Deleting a missing resume is not an error.
func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.store.Del(ctx, key(userID)); err != nil {
		return apperr.Internal(fmt.Errorf("delete resume: %w", err))
	}
	return nil
}

// RawText returns the stored resume text, if any.
func (s *Service) RawText(ctx context.Context, userID string) (string, bool, error) {
	r, found, err := storage.Load[Resume](ctx, s.store, key(userID))
	if err != nil {
		return "", false, apperr.Internal(fmt.Errorf("load resume: %w", err))
	}
	return r.RawText, found, nil
}
