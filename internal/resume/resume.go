// Package resume turns uploaded resume files into text plus structured
// fields, and keeps one resume per user.
package resume

import "time"

// Parsed holds the fields extracted from resume text. Skills is never empty.
type Parsed struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Skills     []string `json:"skills"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Summary    string   `json:"summary"`
}

type Resume struct {
	RawText    string    `json:"rawText"`
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
	Parsed     Parsed    `json:"parsed"`
}
