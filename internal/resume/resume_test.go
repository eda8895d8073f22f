package resume

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/jobmatch/internal/apperr"
	"github.com/spigell/jobmatch/internal/storage"
)

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *stubGenerator) Chat(ctx context.Context, _, message string) (string, error) {
	return s.Complete(ctx, message)
}

func TestHeuristicParse(t *testing.T) {
	parsed := Heuristic("Senior engineer: Python, Docker, PostgreSQL and some react.")

	assert.Equal(t, "User", parsed.Name)
	assert.Equal(t, "", parsed.Email)
	assert.Equal(t, []string{"React", "Python", "Docker", "SQL", "PostgreSQL"}, parsed.Skills)
	assert.Equal(t, "Resume parsed successfully", parsed.Summary)
	assert.NotNil(t, parsed.Experience)
	assert.NotNil(t, parsed.Education)
}

func TestHeuristicParseDefaultsSkills(t *testing.T) {
	parsed := Heuristic("Pastry chef with ten years of experience.")
	assert.Equal(t, []string{"JavaScript", "React"}, parsed.Skills)

	parsed.Skills[0] = "changed"
	assert.Equal(t, []string{"JavaScript", "React"}, Heuristic("").Skills)
}

func TestParserUsesAI(t *testing.T) {
	gen := &stubGenerator{reply: "```json\n" + `{
		"name": "Ada Lovelace",
		"email": "ada@example.com",
		"skills": ["Go", "go", "SQL", ""],
		"experience": ["Analyst at Babbage & Co"],
		"summary": "Engineer"
	}` + "\n```"}

	parsed := NewParser(gen, nil).Parse(context.Background(), strings.Repeat("x", 4000))

	assert.Equal(t, "Ada Lovelace", parsed.Name)
	assert.Equal(t, []string{"Go", "SQL"}, parsed.Skills)
	assert.Equal(t, []string{"Analyst at Babbage & Co"}, parsed.Experience)
	assert.Equal(t, []string{}, parsed.Education)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], strings.Repeat("x", parseExcerptLimit))
	assert.NotContains(t, gen.prompts[0], strings.Repeat("x", parseExcerptLimit+1))
}

func TestParserFillsEmptyAISkills(t *testing.T) {
	gen := &stubGenerator{reply: `{"name": "A", "skills": []}`}

	parsed := NewParser(gen, nil).Parse(context.Background(), "kubernetes operator")
	assert.Equal(t, []string{"Kubernetes"}, parsed.Skills)
}

func TestParserDegrades(t *testing.T) {
	cases := map[string]*stubGenerator{
		"service error":  {err: errors.New("unavailable")},
		"malformed json": {reply: "Name: Ada"},
	}

	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)

			parsed := NewParser(gen, zap.New(core)).Parse(context.Background(), "Vue.js and CSS")

			assert.Equal(t, "User", parsed.Name)
			assert.Equal(t, []string{"Vue.js", "CSS"}, parsed.Skills)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestExtract(t *testing.T) {
	text, err := Extract("cv.txt", "", []byte("Go developer"))
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)

	text, err = Extract("notes", "text/plain; charset=utf-8", []byte("plain"))
	require.NoError(t, err)
	assert.Equal(t, "plain", text)

	_, err = Extract("cv.txt", "text/plain", nil)
	assert.ErrorIs(t, err, apperr.ErrBadInput)
	assert.Equal(t, "No file uploaded", apperr.Message(err))

	_, err = Extract("photo.png", "image/png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, apperr.ErrBadInput)
	assert.Equal(t, "unsupported file type", apperr.Message(err))
}

func TestDetect(t *testing.T) {
	cases := []struct {
		file, contentType, want string
	}{
		{"cv.pdf", "", mimePDF},
		{"CV.DOCX", "application/octet-stream", mimeDOCX},
		{"cv", "application/pdf", mimePDF},
		{"cv.bin", "text/rtf", mimeRTF},
		{"cv.odt", "", mimeODT},
		{"cv.exe", "", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, detect(tc.file, tc.contentType), "detect(%q, %q)", tc.file, tc.contentType)
	}
}

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc := NewService(store, NewParser(nil, nil), nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }

	_, err := svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	text, found, err := svc.RawText(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, text)

	_, err = svc.Upload(ctx, "u1", "first.txt", "text/plain", []byte("Java developer"))
	require.NoError(t, err)

	uploaded, err := svc.Upload(ctx, "u1", "second.md", "", []byte("React and AWS"))
	require.NoError(t, err)
	assert.Equal(t, []string{"React", "AWS"}, uploaded.Parsed.Skills)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "second.md", got.FileName)
	assert.Equal(t, "React and AWS", got.RawText)
	assert.True(t, got.UploadedAt.Equal(svc.now()))

	text, found, err = svc.RawText(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "React and AWS", text)

	require.NoError(t, svc.Delete(ctx, "u1"))
	require.NoError(t, svc.Delete(ctx, "u1"))

	_, err = svc.Get(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestServiceReadsPreParsedValues(t *testing.T) {
	store := storage.NewMemory()
	store.Seed(key("u2"), map[string]any{
		"rawText":    "Go and SQL",
		"fileName":   "cv.txt",
		"uploadedAt": "2024-01-02T03:04:05Z",
		"parsed":     map[string]any{"name": "User", "skills": []any{"SQL"}},
	})

	svc := NewService(store, NewParser(nil, nil), nil)

	got, err := svc.Get(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "Go and SQL", got.RawText)
	assert.Equal(t, []string{"SQL"}, got.Parsed.Skills)
	assert.Equal(t, 2024, got.UploadedAt.Year())
}

func TestUploadRejectsBadInput(t *testing.T) {
	svc := NewService(storage.NewMemory(), NewParser(nil, nil), nil)

	_, err := svc.Upload(context.Background(), "u1", "cv.exe", "", []byte("MZ"))
	assert.ErrorIs(t, err, apperr.ErrBadInput)

	_, err = svc.Upload(context.Background(), "", "cv.txt", "", []byte("text"))
	assert.ErrorIs(t, err, apperr.ErrBadInput)
}
