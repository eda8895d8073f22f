// Package matching scores postings against a resume and ranks them.
package matching

import (
	"fmt"

	"github.com/spigell/jobmatch/internal/jobs"
)

type ExperienceMatch string

const (
	ExperienceStrong   ExperienceMatch = "strong"
	ExperienceModerate ExperienceMatch = "moderate"
	ExperienceWeak     ExperienceMatch = "weak"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Match is the compatibility of one resume with one posting. It is derived on
// every request and never stored.
type Match struct {
	Score           int             `json:"matchScore"`
	MatchedSkills   []string        `json:"matchedSkills"`
	MissingSkills   []string        `json:"missingSkills"`
	ExperienceMatch ExperienceMatch `json:"experienceMatch"`
	Summary         string          `json:"summary"`
}

// ScoredPosting is a posting decorated with its match. Match is nil when no
// resume was available to score against.
type ScoredPosting struct {
	jobs.Posting
	*Match
}

// MatchScore returns the score, treating an unscored posting as zero.
func (s ScoredPosting) MatchScore() int {
	if s.Match == nil {
		return 0
	}
	return s.Match.Score
}

func experienceFor(score int) ExperienceMatch {
	switch {
	case score > 70:
		return ExperienceStrong
	case score > 40:
		return ExperienceModerate
	default:
		return ExperienceWeak
	}
}

func parseExperience(s string) (ExperienceMatch, bool) {
	switch e := ExperienceMatch(s); e {
	case ExperienceStrong, ExperienceModerate, ExperienceWeak:
		return e, true
	default:
		return "", false
	}
}

func defaultSummary(matched int) string {
	return fmt.Sprintf("Match based on %d matching skills", matched)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
