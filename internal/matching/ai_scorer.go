package matching

import (
	"context"
	_ "embed"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/utils"
)

//go:embed score_prompt.md
var scorePromptTemplate string

const (
	resumeExcerptLimit      = 2000
	descriptionExcerptLimit = 1000
)

var errMissingScore = errors.New("ai response has no numeric score")

// AIScorer asks the AI service for a verdict and forces it into the Match
// contract: score clamped, matched skills limited to the posting's own.
type AIScorer struct {
	generator ai.Generator
	logger    *zap.Logger
}

func NewAIScorer(generator ai.Generator, logger *zap.Logger) *AIScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIScorer{generator: generator, logger: logger}
}

func (s *AIScorer) Score(ctx context.Context, resumeText string, job jobs.Posting) (Match, error) {
	raw, err := s.generator.Complete(ctx, buildScorePrompt(resumeText, job))
	if err != nil {
		return Match{}, err
	}

	match, err := parseScore(raw, job)
	if err != nil {
		s.logger.Debug("unusable score response",
			zap.String("job_id", job.ID),
			zap.String("response_preview", utils.TruncateForLog(raw, 200)),
		)
		return Match{}, err
	}

	return match, nil
}

func buildScorePrompt(resumeText string, job jobs.Posting) string {
	return strings.NewReplacer(
		"{{RESUME}}", utils.Truncate(resumeText, resumeExcerptLimit),
		"{{TITLE}}", job.Title,
		"{{COMPANY}}", job.Company,
		"{{DESCRIPTION}}", utils.Truncate(job.Description, descriptionExcerptLimit),
		"{{SKILLS}}", strings.Join(job.Skills, ", "),
	).Replace(scorePromptTemplate)
}

func parseScore(raw string, job jobs.Posting) (Match, error) {
	data, err := ai.DecodeObject(raw)
	if err != nil {
		return Match{}, err
	}

	value := ai.CoerceFloat(data["score"])
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Match{}, errMissingScore
	}
	// Clamped as a float: converting an out-of-range float to int is not defined.
	score := int(math.Round(math.Min(math.Max(value, MinScore), MaxScore)))

	matched := intersect(job.Skills, ai.CoerceStrings(data["matchedSkills"]))

	experience, ok := parseExperience(strings.ToLower(ai.CoerceString(data["experienceMatch"])))
	if !ok {
		experience = experienceFor(score)
	}

	summary := ai.CoerceString(data["summary"])
	if summary == "" {
		summary = defaultSummary(len(matched))
	}

	return Match{
		Score:           score,
		MatchedSkills:   matched,
		MissingSkills:   difference(job.Skills, matched),
		ExperienceMatch: experience,
		Summary:         summary,
	}, nil
}
