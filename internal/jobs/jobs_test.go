package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobmatch/internal/apperr"
)

func TestSamplePostings(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	postings := samplePostings(now)

	if len(postings) != 10 {
		t.Fatalf("expected 10 sample postings, got %d", len(postings))
	}

	seen := map[string]bool{}
	for i, p := range postings {
		if seen[p.ID] {
			t.Fatalf("duplicate id %q", p.ID)
		}
		seen[p.ID] = true

		if len(p.Skills) == 0 || len(p.Skills) > 8 {
			t.Fatalf("posting %s has %d skills", p.ID, len(p.Skills))
		}
		if want := now.Add(-time.Duration(i) * 24 * time.Hour); !p.PostedDate.Equal(want) {
			t.Fatalf("posting %s dated %s, want %s", p.ID, p.PostedDate, want)
		}
	}

	first := postings[0]
	if first.ID != "1" || first.Title != "Senior React Developer" || first.WorkMode != WorkModeRemote {
		t.Fatalf("unexpected first posting: %+v", first)
	}
	if first.ApplyLink != "https://example.com/apply/1" {
		t.Fatalf("unexpected apply link %q", first.ApplyLink)
	}
}

func TestSamplePostingsAreIndependentCopies(t *testing.T) {
	a := SamplePostings()
	a[0].Skills[0] = "changed"

	b := SamplePostings()
	if b[0].Skills[0] != "React" {
		t.Fatalf("sample skills were mutated through a previous result")
	}
}

func TestWithFallback(t *testing.T) {
	live := []Posting{{ID: "live-1", Title: "Go Developer"}}

	cases := []struct {
		name     string
		primary  Aggregator
		wantID   string
		wantWarn bool
	}{
		{
			name: "primary succeeds",
			primary: AggregatorFunc(func(context.Context, Filters) ([]Posting, error) {
				return live, nil
			}),
			wantID: "live-1",
		},
		{
			name: "primary fails",
			primary: AggregatorFunc(func(context.Context, Filters) ([]Posting, error) {
				return nil, errors.New("429 too many requests")
			}),
			wantID:   "1",
			wantWarn: true,
		},
		{
			name:     "no primary",
			wantID:   "1",
			wantWarn: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			agg := WithFallback(tc.primary, zap.New(core))

			got, err := agg.Search(context.Background(), Filters{Query: "go"})
			if err != nil {
				t.Fatalf("fallback must never fail, got %v", err)
			}
			if len(got) == 0 || got[0].ID != tc.wantID {
				t.Fatalf("expected first id %q, got %+v", tc.wantID, got)
			}
			if warned := logs.Len() > 0; warned != tc.wantWarn {
				t.Fatalf("expected warn=%v, got %d entries", tc.wantWarn, logs.Len())
			}
			for _, entry := range logs.All() {
				cause, ok := entry.ContextMap()["error"].(string)
				if !ok || !strings.HasPrefix(cause, "job aggregator unavailable: ") {
					t.Fatalf("expected an upstream cause, got %v", entry.ContextMap())
				}
			}
		})
	}
}

func TestFiltersApply(t *testing.T) {
	base := Filters{Query: "react", Location: "Berlin", Page: 3}

	got := base.Apply(&FilterPatch{WorkMode: String("remote"), MinMatchScore: Int(70)})

	want := Filters{Query: "react", Location: "Berlin", WorkMode: "remote", MinMatchScore: 70}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if !got.IsRemote() {
		t.Fatalf("expected remote filter")
	}

	if same := base.Apply(nil); same != base {
		t.Fatalf("nil patch must not change filters")
	}
	if same := base.Apply(&FilterPatch{}); same != base {
		t.Fatalf("empty patch must not change filters")
	}
}

func TestFind(t *testing.T) {
	agg := WithFallback(nil, nil)

	p, ok, err := Find(context.Background(), agg, "7")
	if err != nil || !ok {
		t.Fatalf("expected to find posting 7, ok=%v err=%v", ok, err)
	}
	if p.Title != "Python Developer" {
		t.Fatalf("unexpected posting %q", p.Title)
	}

	if _, ok, _ := Find(context.Background(), agg, "404"); ok {
		t.Fatalf("unexpected match for unknown id")
	}
}

func TestFallbackLogsUpstreamError(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	agg := WithFallback(nil, zap.New(core))

	if _, err := agg.Search(context.Background(), Filters{}); err != nil {
		t.Fatalf("fallback must never fail, got %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	for _, f := range entries[0].Context {
		if f.Key != "error" {
			continue
		}
		err, _ := f.Interface.(error)
		if !errors.Is(err, apperr.ErrUpstreamUnavailable) || !errors.Is(err, ErrNoAggregator) {
			t.Fatalf("expected upstream error wrapping ErrNoAggregator, got %v", err)
		}
		return
	}
	t.Fatalf("warning carries no error field")
}
