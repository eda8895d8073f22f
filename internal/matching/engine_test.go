package matching

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobmatch/internal/jobs"
)

type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *stubGenerator) Chat(ctx context.Context, _, message string) (string, error) {
	return s.Complete(ctx, message)
}

func fixed(n int) func(int) int {
	return func(int) int { return n }
}

func TestHeuristicReactAWSScenario(t *testing.T) {
	job := jobs.Posting{ID: "j1", Skills: []string{"React", "AWS", "Docker"}}
	resume := "Frontend engineer. Five years of React, deployed on AWS."

	for jitter := 0; jitter < heuristicJitter; jitter++ {
		m := NewHeuristic(fixed(jitter)).Score(resume, job)

		assert.Equal(t, 2*heuristicPerSkill+jitter, m.Score, "jitter %d", jitter)
		assert.GreaterOrEqual(t, m.Score, 30)
		assert.LessOrEqual(t, m.Score, 49)
		assert.Equal(t, []string{"React", "AWS"}, m.MatchedSkills)
		assert.Equal(t, []string{"Docker"}, m.MissingSkills)
		assert.Equal(t, "Match based on 2 matching skills", m.Summary)
	}
}

func TestHeuristicClampsScore(t *testing.T) {
	low := NewHeuristic(fixed(0)).Score("nothing relevant", jobs.Posting{Skills: []string{"Go"}})
	assert.Equal(t, heuristicFloor, low.Score)
	assert.Equal(t, ExperienceWeak, low.ExperienceMatch)

	many := jobs.Posting{Skills: []string{"React", "AWS", "Docker", "SQL", "Git", "CSS", "HTML", "Python"}}
	high := NewHeuristic(fixed(19)).Score("react aws docker sql git css html python", many)
	assert.Equal(t, heuristicCeiling, high.Score)
	assert.Equal(t, ExperienceStrong, high.ExperienceMatch)
	assert.Empty(t, high.MissingSkills)
}

func TestExperienceThresholds(t *testing.T) {
	cases := map[int]ExperienceMatch{
		95: ExperienceStrong,
		71: ExperienceStrong,
		70: ExperienceModerate,
		41: ExperienceModerate,
		40: ExperienceWeak,
		0:  ExperienceWeak,
	}
	for score, want := range cases {
		assert.Equal(t, want, experienceFor(score), "score %d", score)
	}
}

func TestAIScorerForcesContract(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n" + `{
		"score": 140.4,
		"matchedSkills": ["react", "Rust", "Docker"],
		"missingSkills": ["Everything"],
		"experienceMatch": "Strong",
		"summary": "Solid frontend background"
	}` + "\n```"}

	job := jobs.Posting{ID: "j1", Title: "Frontend", Skills: []string{"React", "AWS", "Docker"}}

	m, err := NewAIScorer(gen, nil).Score(context.Background(), "resume", job)
	require.NoError(t, err)

	assert.Equal(t, MaxScore, m.Score)
	assert.Equal(t, []string{"React", "Docker"}, m.MatchedSkills)
	assert.Equal(t, []string{"AWS"}, m.MissingSkills)
	assert.Equal(t, ExperienceStrong, m.ExperienceMatch)
	assert.Equal(t, "Solid frontend background", m.Summary)
}

func TestAIScorerClampsHugeScores(t *testing.T) {
	job := jobs.Posting{Skills: []string{"Go"}}

	cases := map[string]int{
		`{"score": 1e300}`:  MaxScore,
		`{"score": -1e300}`: MinScore,
		`{"score": 99.6}`:   MaxScore,
		`{"score": -0.4}`:   MinScore,
	}
	for reply, want := range cases {
		m, err := parseScore(reply, job)
		require.NoError(t, err, reply)
		assert.Equal(t, want, m.Score, reply)
	}
}

func TestAIScorerDerivesMissingFields(t *testing.T) {
	gen := &stubGenerator{reply: `{"score": "55", "experienceMatch": "excellent"}`}
	job := jobs.Posting{Skills: []string{"Go"}}

	m, err := NewAIScorer(gen, nil).Score(context.Background(), "resume", job)
	require.NoError(t, err)

	assert.Equal(t, 55, m.Score)
	assert.Equal(t, ExperienceModerate, m.ExperienceMatch)
	assert.Equal(t, "Match based on 0 matching skills", m.Summary)
	assert.Empty(t, m.MatchedSkills)
	assert.Equal(t, []string{"Go"}, m.MissingSkills)
}

func TestAIScorerRejectsUnusableReplies(t *testing.T) {
	for _, reply := range []string{"I think it's a great fit!", `{"score": "high"}`, `{"summary": "no score"}`} {
		gen := &stubGenerator{reply: reply}
		_, err := NewAIScorer(gen, nil).Score(context.Background(), "r", jobs.Posting{})
		assert.Error(t, err, reply)
	}
}

func TestBuildScorePromptUsesBoundedExcerpts(t *testing.T) {
	resume := strings.Repeat("r", 2500)
	description := strings.Repeat("d", 1500)

	prompt := buildScorePrompt(resume, jobs.Posting{
		Title:       "Go Developer",
		Company:     "Acme",
		Description: description,
		Skills:      []string{"Go", "SQL"},
	})

	assert.Contains(t, prompt, strings.Repeat("r", resumeExcerptLimit))
	assert.NotContains(t, prompt, strings.Repeat("r", resumeExcerptLimit+1))
	assert.Contains(t, prompt, strings.Repeat("d", descriptionExcerptLimit))
	assert.NotContains(t, prompt, strings.Repeat("d", descriptionExcerptLimit+1))
	for _, want := range []string{"Title: Go Developer", "Company: Acme", "Required Skills: Go, SQL"} {
		assert.Contains(t, prompt, want)
	}
}

func TestEngineDegradesOnAIFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gen := &stubGenerator{err: errors.New("503 unavailable")}

	e := NewEngine(gen, fixed(5), zap.New(core))
	m := e.Score(context.Background(), "react", jobs.Posting{ID: "j1", Skills: []string{"React"}})

	assert.Equal(t, 20, m.Score)
	assert.Equal(t, 1, logs.FilterMessageSnippet("degrading").Len())
}

func TestEngineDegradesOnMalformedReply(t *testing.T) {
	gen := &stubGenerator{reply: "not json"}

	m := NewEngine(gen, fixed(0), nil).Score(context.Background(), "react aws", jobs.Posting{Skills: []string{"React", "AWS"}})
	assert.Equal(t, 30, m.Score)
}

func TestEngineWithoutGenerator(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	m := NewEngine(nil, fixed(0), zap.New(core)).Score(context.Background(), "", jobs.Posting{Skills: []string{"React"}})
	assert.Equal(t, heuristicFloor, m.Score)
	assert.Zero(t, logs.Len(), "absent ai must not warn")
}

func TestEngineUsesAIWhenAvailable(t *testing.T) {
	gen := &stubGenerator{reply: `{"score": 88, "matchedSkills": ["React"], "experienceMatch": "strong", "summary": "ok"}`}

	m := NewEngine(gen, fixed(0), nil).Score(context.Background(), "resume", jobs.Posting{Skills: []string{"React", "AWS"}})
	assert.Equal(t, 88, m.Score)
	assert.Equal(t, "ok", m.Summary)
	assert.Len(t, gen.prompts, 1)
}
