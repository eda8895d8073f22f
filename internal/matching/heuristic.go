package matching

import (
	"math/rand/v2"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/skills"
)

const (
	heuristicPerSkill = 15
	heuristicJitter   = 20
	heuristicFloor    = 20
	heuristicCeiling  = 95
)

// Heuristic scores by counting posting skills mentioned in the resume, plus
// a bounded random jitter.
type Heuristic struct {
	intn func(n int) int
}

// NewHeuristic uses intn as the jitter source; nil means math/rand.
func NewHeuristic(intn func(n int) int) *Heuristic {
	if intn == nil {
		intn = rand.IntN
	}
	return &Heuristic{intn: intn}
}

func (h *Heuristic) Score(resumeText string, job jobs.Posting) Match {
	normalized := skills.Normalize(resumeText)

	matched := make([]string, 0, len(job.Skills))
	for _, skill := range job.Skills {
		if skills.Mentions(normalized, skill) {
			matched = append(matched, skill)
		}
	}

	score := clamp(len(matched)*heuristicPerSkill+h.intn(heuristicJitter), heuristicFloor, heuristicCeiling)

	return Match{
		Score:           score,
		MatchedSkills:   matched,
		MissingSkills:   difference(job.Skills, matched),
		ExperienceMatch: experienceFor(score),
		Summary:         defaultSummary(len(matched)),
	}
}

// difference returns the members of all not in subset, in the order of all.
func difference(all, subset []string) []string {
	exclude := make(map[string]struct{}, len(subset))
	for _, s := range subset {
		exclude[skills.Normalize(s)] = struct{}{}
	}

	out := make([]string, 0, len(all))
	for _, s := range all {
		if _, ok := exclude[skills.Normalize(s)]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// intersect returns the members of all that also appear in candidates,
// ignoring case, in the order and casing of all.
func intersect(all, candidates []string) []string {
	keep := make(map[string]struct{}, len(candidates))
	for _, s := range candidates {
		keep[skills.Normalize(s)] = struct{}{}
	}

	out := make([]string, 0, len(all))
	for _, s := range all {
		if _, ok := keep[skills.Normalize(s)]; ok {
			out = append(out, s)
		}
	}
	return out
}
