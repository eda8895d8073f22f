package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/resume"
	"github.com/spigell/jobmatch/internal/storage"
	"github.com/spigell/jobmatch/internal/tracker"
)

func newTestService(t *testing.T, gen *stubGenerator) (*Service, *tracker.Ledger, *resume.Service) {
	t.Helper()

	store := storage.NewMemory()
	resumes := resume.NewService(store, resume.NewParser(nil, nil), nil)
	ledger := tracker.New(store, nil)
	orch := matching.NewOrchestrator(jobs.WithFallback(nil, nil), matching.NewEngine(nil, nil, nil), resumes, matching.Config{}, nil)

	var router *Router
	if gen != nil {
		router = NewRouter(gen, nil)
	} else {
		router = NewRouter(nil, nil)
	}

	return NewService(router, orch, ledger, resumes, nil), ledger, resumes
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	_, err := svc.Chat(context.Background(), "u1", "   ")
	assert.ErrorIs(t, err, apperr.ErrBadInput)
}

func TestChatWithoutAI(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	reply, err := svc.Chat(context.Background(), "u1", "Show me remote jobs")
	require.NoError(t, err)
	assert.Equal(t, ReplyJobFilter, reply.Type)
	require.NotNil(t, reply.Filters)
	assert.Equal(t, "remote", *reply.Filters.WorkMode)
}

func TestChatPassesUserContext(t *testing.T) {
	gen := &stubGenerator{reply: `{"type":"text","message":"You have one application."}`}
	svc, ledger, resumes := newTestService(t, gen)
	ctx := context.Background()

	_, err := ledger.Create(ctx, "u1", tracker.Submission{JobID: "1"})
	require.NoError(t, err)
	_, err = resumes.Upload(ctx, "u1", "cv.txt", "text/plain", []byte("React developer"))
	require.NoError(t, err)

	reply, err := svc.Chat(ctx, "u1", "what did I apply to?")
	require.NoError(t, err)
	assert.Equal(t, "You have one application.", reply.Message)

	assert.Contains(t, gen.system, "Total jobs available: 10")
	assert.Contains(t, gen.system, "User applications: 1")
	assert.Contains(t, gen.system, "User has resume: Yes")
}

func TestMergeFilters(t *testing.T) {
	current := jobs.Filters{Query: "react", Location: "Austin"}

	merged := MergeFilters(current, Fallback("only remote please"))
	assert.Equal(t, jobs.Filters{Query: "react", Location: "Austin", WorkMode: "remote"}, merged)

	merged = MergeFilters(merged, Fallback("best match"))
	assert.Equal(t, 70, merged.MinMatchScore)
	assert.Equal(t, "react", merged.Query)

	assert.Equal(t, current, MergeFilters(current, Fallback("hello")))
}
