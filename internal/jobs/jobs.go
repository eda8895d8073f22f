// Package jobs describes job postings as the engine sees them and the
// aggregator contract they are fetched through.
package jobs

import (
	"context"
	"strings"
	"time"
)

type WorkMode string

const (
	WorkModeRemote WorkMode = "Remote"
	WorkModeHybrid WorkMode = "Hybrid"
	WorkModeOnSite WorkMode = "On-site"
)

// Posting is ephemeral: it is fetched on every request and never stored.
type Posting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	JobType     string    `json:"jobType"`
	WorkMode    WorkMode  `json:"workMode"`
	PostedDate  time.Time `json:"postedDate"`
	ApplyLink   string    `json:"applyLink"`
	Logo        string    `json:"logo,omitempty"`
	Skills      []string  `json:"skills"`
	Salary      string    `json:"salary"`
}

// Filters is the full filter state a listing is requested with.
// Zero values mean "not set".
type Filters struct {
	Query         string `json:"query,omitempty"`
	Location      string `json:"location,omitempty"`
	JobType       string `json:"jobType,omitempty"`
	WorkMode      string `json:"workMode,omitempty"`
	DatePosted    string `json:"datePosted,omitempty"`
	Page          int    `json:"page,omitempty"`
	MinMatchScore int    `json:"minMatchScore,omitempty"`
}

// IsRemote reports whether the work mode filter asks for remote postings only.
func (f Filters) IsRemote() bool {
	return strings.EqualFold(f.WorkMode, "remote")
}

// FilterPatch is a sparse set of overrides. Only non-nil keys replace the
// corresponding key of an existing Filters value.
type FilterPatch struct {
	Query         *string `json:"query,omitempty"`
	Location      *string `json:"location,omitempty"`
	JobType       *string `json:"jobType,omitempty"`
	WorkMode      *string `json:"workMode,omitempty"`
	DatePosted    *string `json:"datePosted,omitempty"`
	MinMatchScore *int    `json:"minMatchScore,omitempty"`
}

// Empty reports whether the patch overrides nothing.
func (p *FilterPatch) Empty() bool {
	return p == nil || (p.Query == nil && p.Location == nil && p.JobType == nil &&
		p.WorkMode == nil && p.DatePosted == nil && p.MinMatchScore == nil)
}

// Apply returns f with the keys set in p overridden. The page is reset when
// anything changes so a refined search starts from the beginning.
func (f Filters) Apply(p *FilterPatch) Filters {
	if p.Empty() {
		return f
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.Query, p.Query)
	set(&f.Location, p.Location)
	set(&f.JobType, p.JobType)
	set(&f.WorkMode, p.WorkMode)
	set(&f.DatePosted, p.DatePosted)
	if p.MinMatchScore != nil {
		f.MinMatchScore = *p.MinMatchScore
	}
	f.Page = 0

	return f
}

// Aggregator is an external directory of postings.
type Aggregator interface {
	Search(ctx context.Context, filters Filters) ([]Posting, error)
}

// AggregatorFunc adapts a plain function to Aggregator.
type AggregatorFunc func(ctx context.Context, filters Filters) ([]Posting, error)

func (f AggregatorFunc) Search(ctx context.Context, filters Filters) ([]Posting, error) {
	return f(ctx, filters)
}

// Find returns the posting with the given id among the unfiltered listing.
func Find(ctx context.Context, aggregator Aggregator, id string) (Posting, bool, error) {
	postings, err := aggregator.Search(ctx, Filters{})
	if err != nil {
		return Posting{}, false, err
	}
	for _, p := range postings {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Posting{}, false, nil
}

// String helps building patches inline.
func String(s string) *string { return &s }

// Int helps building patches inline.
func Int(i int) *int { return &i }
