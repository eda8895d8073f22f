// Package jsearch is a client for the JSearch job directory on RapidAPI.
package jsearch

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
)

const (
	apiURL         = "https://jsearch.p.rapidapi.com"
	apiHost        = "jsearch.p.rapidapi.com"
	searchPath     = "/search"
	defaultQuery   = "software developer"
	defaultPosted  = "all"
	defaultTimeout = 10 * time.Second
	notSpecified   = "Not specified"
)

type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	Host       string
}

func New(logger *zap.Logger, apiKey string, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		apiKey: apiKey,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		APIURL: apiURL,
		Host:   apiHost,
	}
}

// Search fetches one page of postings matching filters.
func (c *Client) Search(ctx context.Context, filters jobs.Filters) ([]jobs.Posting, error) {
	var resp searchResponse
	if err := c.getJSON(ctx, strings.TrimRight(c.APIURL, "/")+searchPath, buildParams(filters), &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("got response from JSearch", zap.Int("postings", len(resp.Data)))

	postings := make([]jobs.Posting, 0, len(resp.Data))
	for _, item := range resp.Data {
		postings = append(postings, item.posting())
	}

	return postings, nil
}

// mapJobType translates the engine's job types into JSearch employment types.
func mapJobType(jobType string) string {
	switch strings.ToLower(jobType) {
	case "full-time":
		return "FULLTIME"
	case "part-time":
		return "PARTTIME"
	case "contract":
		return "CONTRACTOR"
	case "internship":
		return "INTERN"
	default:
		return ""
	}
}
