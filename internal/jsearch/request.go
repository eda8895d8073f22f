package jsearch

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/jobs"
)

const contentEncoding = "gzip"

func buildParams(f jobs.Filters) url.Values {
	query := f.Query
	if query == "" {
		query = defaultQuery
	}

	page := f.Page
	if page < 1 {
		page = 1
	}

	datePosted := f.DatePosted
	if datePosted == "" {
		datePosted = defaultPosted
	}

	q := url.Values{}
	q.Set("query", strings.TrimSpace(query+" "+f.Location))
	q.Set("page", strconv.Itoa(page))
	q.Set("num_pages", "1")
	q.Set("date_posted", datePosted)
	q.Set("remote_jobs_only", strconv.FormatBool(f.IsRemote()))
	q.Set("employment_types", mapJobType(f.JobType))

	return q
}

func (c *Client) getJSON(ctx context.Context, url string, q url.Values, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	req = c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode search response: %w", err)
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.Host)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}
