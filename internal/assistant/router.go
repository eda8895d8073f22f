// Package assistant turns chat messages into either job filter instructions
// or plain informational replies.
package assistant

import (
	"context"
	_ "embed"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/tracker"
)

//go:embed system_prompt.md
var systemPromptTemplate string

const maxJobSummaries = 10

type ReplyType string

const (
	ReplyJobFilter ReplyType = "job_filter"
	ReplyText      ReplyType = "text"
)

// Reply is what the assistant answers with. Filters is set only for
// job_filter replies and holds just the keys to override.
type Reply struct {
	Type    ReplyType         `json:"type"`
	Filters *jobs.FilterPatch `json:"filters,omitempty"`
	Message string            `json:"message"`
}

// Snapshot is the user's state the assistant answers against.
type Snapshot struct {
	Jobs         []matching.ScoredPosting
	Applications []tracker.Application
	ResumeText   string
}

// Router classifies messages, preferring the AI service and degrading to
// keyword rules.
type Router struct {
	generator ai.Generator
	logger    *zap.Logger
}

// NewRouter builds a router. A nil generator means keyword rules only.
func NewRouter(generator ai.Generator, log *zap.Logger) *Router {
	return &Router{generator: generator, logger: logger.WithFields(log)}
}

func (r *Router) Route(ctx context.Context, message string, snap Snapshot) Reply {
	var primary func(context.Context) (Reply, error)
	if r.generator != nil {
		primary = func(ctx context.Context) (Reply, error) {
			return r.routeAI(ctx, message, snap)
		}
	}

	reply, _ := ai.Degrade(ctx, r.logger, "intent_router", primary, func() Reply {
		return Fallback(message)
	})
	return reply
}

func (r *Router) routeAI(ctx context.Context, message string, snap Snapshot) (Reply, error) {
	raw, err := r.generator.Chat(ctx, buildSystemPrompt(snap), message)
	if err != nil {
		return Reply{}, err
	}
	return parseReply(raw), nil
}

type jobSummary struct {
	Title      string        `json:"title"`
	Company    string        `json:"company"`
	Location   string        `json:"location"`
	WorkMode   jobs.WorkMode `json:"workMode"`
	MatchScore *int          `json:"matchScore,omitempty"`
}

func buildSystemPrompt(snap Snapshot) string {
	n := len(snap.Jobs)
	if n > maxJobSummaries {
		n = maxJobSummaries
	}

	summaries := make([]jobSummary, 0, n)
	for _, j := range snap.Jobs[:n] {
		s := jobSummary{
			Title:    j.Title,
			Company:  j.Company,
			Location: j.Location,
			WorkMode: j.WorkMode,
		}
		if j.Match != nil {
			score := j.Match.Score
			s.MatchScore = &score
		}
		summaries = append(summaries, s)
	}

	encoded, err := json.Marshal(summaries)
	if err != nil {
		encoded = []byte("[]")
	}

	hasResume := "No"
	if strings.TrimSpace(snap.ResumeText) != "" {
		hasResume = "Yes"
	}

	return strings.NewReplacer(
		"{{JOB_COUNT}}", strconv.Itoa(len(snap.Jobs)),
		"{{APPLICATION_COUNT}}", strconv.Itoa(len(snap.Applications)),
		"{{HAS_RESUME}}", hasResume,
		"{{JOBS}}", string(encoded),
	).Replace(systemPromptTemplate)
}

// parseReply never fails: anything that is not one of the two reply shapes
// is passed through as text.
func parseReply(raw string) Reply {
	data, err := ai.DecodeObject(raw)
	if err != nil {
		return Reply{Type: ReplyText, Message: strings.TrimSpace(raw)}
	}

	message := ai.CoerceString(data["message"])

	switch ReplyType(ai.CoerceString(data["type"])) {
	case ReplyJobFilter:
		filters, _ := data["filters"].(map[string]any)
		return Reply{Type: ReplyJobFilter, Filters: patchFrom(filters), Message: message}
	case ReplyText:
		return Reply{Type: ReplyText, Message: message}
	default:
		if message == "" {
			message = strings.TrimSpace(raw)
		}
		return Reply{Type: ReplyText, Message: message}
	}
}

// patchFrom keeps only the keys the model actually filled in. minScore is
// the model-facing name of minMatchScore.
func patchFrom(data map[string]any) *jobs.FilterPatch {
	patch := &jobs.FilterPatch{}

	str := func(k string) *string {
		if s := ai.CoerceString(data[k]); s != "" {
			return &s
		}
		return nil
	}
	patch.Query = str("query")
	patch.Location = str("location")
	patch.JobType = str("jobType")
	patch.WorkMode = str("workMode")
	patch.DatePosted = str("datePosted")

	for _, k := range []string{"minMatchScore", "minScore"} {
		v := ai.CoerceFloat(data[k])
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		score := int(math.Round(math.Min(v, float64(matching.MaxScore))))
		patch.MinMatchScore = &score
		break
	}

	return patch
}
