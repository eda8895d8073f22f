package resume

import (
	"context"
	_ "embed"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/skills"
)

//go:embed parse_prompt.md
var parsePromptTemplate string

const (
	parseExcerptLimit = 3000
	placeholderName   = "User"
	parsedSummary     = "Resume parsed successfully"
)

// Parser extracts structured fields from resume text. It never fails.
type Parser struct {
	generator ai.Generator
	logger    *zap.Logger
}

// NewParser builds a parser. A nil generator means heuristic parsing only.
func NewParser(generator ai.Generator, log *zap.Logger) *Parser {
	return &Parser{generator: generator, logger: logger.WithFields(log)}
}

func (p *Parser) Parse(ctx context.Context, text string) Parsed {
	var primary func(context.Context) (Parsed, error)
	if p.generator != nil {
		primary = func(ctx context.Context) (Parsed, error) {
			return p.parseAI(ctx, text)
		}
	}

	parsed, _ := ai.Degrade(ctx, p.logger, "resume_parser", primary, func() Parsed {
		return Heuristic(text)
	})
	return parsed
}

func (p *Parser) parseAI(ctx context.Context, text string) (Parsed, error) {
	prompt := strings.ReplaceAll(parsePromptTemplate, "{{RESUME}}", excerpt(text))

	raw, err := p.generator.Complete(ctx, prompt)
	if err != nil {
		return Parsed{}, err
	}

	data, err := ai.DecodeObject(raw)
	if err != nil {
		return Parsed{}, err
	}

	parsed := Parsed{
		Name:       ai.CoerceString(data["name"]),
		Email:      ai.CoerceString(data["email"]),
		Skills:     skills.Unique(ai.CoerceStrings(data["skills"])),
		Experience: nonNil(ai.CoerceStrings(data["experience"])),
		Education:  nonNil(ai.CoerceStrings(data["education"])),
		Summary:    ai.CoerceString(data["summary"]),
	}
	if len(parsed.Skills) == 0 {
		parsed.Skills = scanSkills(text)
	}

	return parsed, nil
}

// Heuristic scans text against the skill lexicon and fills every other field
// with placeholders.
func Heuristic(text string) Parsed {
	return Parsed{
		Name:       placeholderName,
		Skills:     scanSkills(text),
		Experience: []string{},
		Education:  []string{},
		Summary:    parsedSummary,
	}
}

func scanSkills(text string) []string {
	found := skills.Scan(text)
	if len(found) == 0 {
		return append([]string(nil), skills.DefaultResumeSkills...)
	}
	return found
}

func excerpt(text string) string {
	r := []rune(text)
	if len(r) <= parseExcerptLimit {
		return text
	}
	return string(r[:parseExcerptLimit])
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
