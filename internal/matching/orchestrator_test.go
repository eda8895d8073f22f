package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/jobs"
)

type scoreTable map[string]int

func (s scoreTable) Score(_ context.Context, _ string, job jobs.Posting) Match {
	return Match{Score: s[job.ID], MatchedSkills: []string{}, MissingSkills: job.Skills}
}

type stubResumes map[string]string

func (s stubResumes) RawText(_ context.Context, userID string) (string, bool, error) {
	text, ok := s[userID]
	return text, ok, nil
}

func staticAggregator(postings []jobs.Posting) jobs.Aggregator {
	return jobs.AggregatorFunc(func(context.Context, jobs.Filters) ([]jobs.Posting, error) {
		return postings, nil
	})
}

func postingsWithIDs(n int) []jobs.Posting {
	out := make([]jobs.Posting, n)
	for i := range out {
		out[i] = jobs.Posting{ID: fmt.Sprint(i + 1), Skills: []string{"React", "AWS", "Docker"}}
	}
	return out
}

func ids(list []ScoredPosting) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.ID
	}
	return out
}

func TestListJobsRanksStablyDescending(t *testing.T) {
	scores := scoreTable{"1": 40, "2": 90, "3": 40, "4": 75, "5": 90}
	o := NewOrchestrator(staticAggregator(postingsWithIDs(5)), scores, nil, Config{MaxConcurrency: 2}, nil)

	got, err := o.ListJobs(context.Background(), jobs.Filters{}, "resume")
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "5", "4", "1", "3"}, ids(got))
}

func TestListJobsAppliesMinScoreAfterRanking(t *testing.T) {
	scores := scoreTable{"1": 40, "2": 90, "3": 70, "4": 69}
	o := NewOrchestrator(staticAggregator(postingsWithIDs(4)), scores, nil, Config{}, nil)

	got, err := o.ListJobs(context.Background(), jobs.Filters{MinMatchScore: 70}, "resume")
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "3"}, ids(got))
}

func TestListJobsWithoutResume(t *testing.T) {
	o := NewOrchestrator(staticAggregator(postingsWithIDs(3)), scoreTable{}, nil, Config{}, nil)

	got, err := o.ListJobs(context.Background(), jobs.Filters{}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
	for _, p := range got {
		assert.Nil(t, p.Match)
	}

	got, err = o.ListJobs(context.Background(), jobs.Filters{MinMatchScore: 10}, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListJobsPropagatesAggregatorError(t *testing.T) {
	agg := jobs.AggregatorFunc(func(context.Context, jobs.Filters) ([]jobs.Posting, error) {
		return nil, errors.New("boom")
	})
	o := NewOrchestrator(agg, scoreTable{}, nil, Config{}, nil)

	_, err := o.ListJobs(context.Background(), jobs.Filters{}, "resume")
	assert.Error(t, err)
}

func TestHeuristicRankingProperties(t *testing.T) {
	engine := NewEngine(nil, nil, nil)
	o := NewOrchestrator(jobs.WithFallback(nil, nil), engine, nil, Config{}, nil)

	got, err := o.ListJobs(context.Background(), jobs.Filters{}, "React, TypeScript, Node.js and AWS. Some Python and SQL.")
	require.NoError(t, err)
	require.Len(t, got, 10)

	for i, p := range got {
		require.NotNil(t, p.Match)
		assert.GreaterOrEqual(t, p.MatchScore(), MinScore)
		assert.LessOrEqual(t, p.MatchScore(), MaxScore)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].MatchScore(), p.MatchScore())
		}

		union := map[string]bool{}
		for _, s := range p.MatchedSkills {
			union[s] = true
		}
		for _, s := range p.MissingSkills {
			assert.False(t, union[s], "skill %q both matched and missing", s)
			union[s] = true
		}
		assert.Len(t, union, len(p.Skills))
		for _, s := range p.Skills {
			assert.True(t, union[s])
		}
	}
}

func TestBestMatches(t *testing.T) {
	postings := postingsWithIDs(25)
	scores := scoreTable{}
	for i, p := range postings {
		scores[p.ID] = (i * 37) % 100
	}
	// Outside the sample: must never be picked even with the top score.
	scores["25"] = 100

	o := NewOrchestrator(staticAggregator(postings), scores, nil, Config{}, nil)

	got, err := o.BestMatches(context.Background(), "resume")
	require.NoError(t, err)
	require.Len(t, got, DefaultBestMatchesLimit)

	sample := make([]int, 0, DefaultBestMatchesSample)
	for _, p := range postings[:DefaultBestMatchesSample] {
		sample = append(sample, scores[p.ID])
	}

	for i, p := range got {
		assert.NotEqual(t, "25", p.ID)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].MatchScore(), p.MatchScore())
		}
		higher := 0
		for _, s := range sample {
			if s > p.MatchScore() {
				higher++
			}
		}
		assert.Less(t, higher, DefaultBestMatchesLimit, "posting %s is not among the top scores", p.ID)
	}
}

func TestBestMatchesWithoutResume(t *testing.T) {
	o := NewOrchestrator(staticAggregator(postingsWithIDs(3)), scoreTable{}, nil, Config{}, nil)

	got, err := o.BestMatches(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUserScopedListings(t *testing.T) {
	scores := scoreTable{"1": 10, "2": 80}
	resumes := stubResumes{"u1": "react"}
	o := NewOrchestrator(staticAggregator(postingsWithIDs(2)), scores, resumes, Config{}, nil)

	got, err := o.ListJobsFor(context.Background(), "u1", jobs.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(got))

	got, err = o.ListJobsFor(context.Background(), "nobody", jobs.Filters{})
	require.NoError(t, err)
	assert.Nil(t, got[0].Match)

	best, err := o.BestMatchesFor(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, best)
}

func TestJob(t *testing.T) {
	o := NewOrchestrator(jobs.WithFallback(nil, nil), scoreTable{}, nil, Config{}, nil)

	p, err := o.Job(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "UX Designer", p.Title)

	_, err = o.Job(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "Job not found", apperr.Message(err))
}
