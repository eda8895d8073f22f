package jsearch

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/skills"
)

var spaces = regexp.MustCompile(`[ \t]+`)

type searchResponse struct {
	Status string `json:"status"`
	Data   []item `json:"data"`
}

type item struct {
	ID           string   `json:"job_id"`
	Title        string   `json:"job_title"`
	Employer     string   `json:"employer_name"`
	EmployerLogo string   `json:"employer_logo"`
	City         string   `json:"job_city"`
	Country      string   `json:"job_country"`
	Description  string   `json:"job_description"`
	Employment   string   `json:"job_employment_type"`
	IsRemote     bool     `json:"job_is_remote"`
	PostedAt     string   `json:"job_posted_at_datetime_utc"`
	ApplyLink    string   `json:"job_apply_link"`
	MinSalary    *float64 `json:"job_min_salary"`
	MaxSalary    *float64 `json:"job_max_salary"`
}

func (i item) posting() jobs.Posting {
	description := plainText(i.Description)

	return jobs.Posting{
		ID:          i.ID,
		Title:       i.Title,
		Company:     i.Employer,
		Location:    i.location(),
		Description: description,
		JobType:     i.Employment,
		WorkMode:    i.workMode(),
		PostedDate:  parseTime(i.PostedAt),
		ApplyLink:   i.ApplyLink,
		Logo:        i.EmployerLogo,
		Skills:      skills.ForPosting(description),
		Salary:      formatSalary(i.MinSalary, i.MaxSalary),
	}
}

func (i item) location() string {
	if i.City == "" {
		return i.Country
	}
	return i.City + ", " + i.Country
}

func (i item) workMode() jobs.WorkMode {
	if i.IsRemote {
		return jobs.WorkModeRemote
	}
	return jobs.WorkModeOnSite
}

func formatSalary(from, to *float64) string {
	if from == nil || *from == 0 {
		return notSpecified
	}
	if to == nil || *to == 0 {
		return "$" + formatAmount(*from)
	}
	return "$" + formatAmount(*from) + " - $" + formatAmount(*to)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// plainText strips markup from a description. Text without tags is only
// tidied so line breaks survive.
func plainText(s string) string {
	if strings.Contains(s, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			doc.Find("script, style").Remove()
			doc.Find("br, p, li, div").Each(func(_ int, sel *goquery.Selection) {
				sel.AppendHtml("\n")
			})
			s = doc.Text()
		}
	}

	lines := strings.Split(s, "\n")
	clean := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(spaces.ReplaceAllString(line, " "))
		if line != "" {
			clean = append(clean, line)
		}
	}

	return strings.Join(clean, "\n")
}
