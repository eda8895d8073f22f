package tracker

import (
	"strings"

	"github.com/spigell/jobmatch/internal/apperr"
)

type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"

	// Answers to the apply confirmation that never reach storage as such.
	StatusBrowsing       Status = "browsing"
	StatusAppliedEarlier Status = "applied_earlier"
)

// Statuses lists the values an application can be stored with.
var Statuses = []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected}

// ParseStatus validates s as a storable status. "applied_earlier" is
// recorded as applied.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return st, nil
	case StatusAppliedEarlier:
		return StatusApplied, nil
	default:
		return "", apperr.BadInput("invalid status: " + s)
	}
}

// MatchesFilter reports whether st passes a list filter. Empty and "all"
// match everything.
func (st Status) MatchesFilter(filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	return filter == "" || filter == "all" || Status(filter) == st
}
