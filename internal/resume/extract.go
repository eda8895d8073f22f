package resume

import (
	"bytes"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"

	"github.com/spigell/jobmatch/internal/apperr"
)

const (
	mimePlain    = "text/plain"
	mimeMarkdown = "text/markdown"
	mimePDF      = "application/pdf"
	mimeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDOC      = "application/msword"
	mimeRTF      = "application/rtf"
	mimeODT      = "application/vnd.oasis.opendocument.text"
)

var byExtension = map[string]string{
	".txt":  mimePlain,
	".md":   mimeMarkdown,
	".pdf":  mimePDF,
	".docx": mimeDOCX,
	".doc":  mimeDOC,
	".rtf":  mimeRTF,
	".odt":  mimeODT,
}

var aliases = map[string]string{
	"text/rtf":          mimeRTF,
	"text/x-markdown":   mimeMarkdown,
	"application/x-pdf": mimePDF,
}

// Extract returns the text of an uploaded resume file. The declared content
// type wins over the file extension.
func Extract(fileName, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperr.BadInput("No file uploaded")
	}

	kind := detect(fileName, contentType)
	switch kind {
	case mimePlain, mimeMarkdown:
		return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
	case mimePDF, mimeDOCX, mimeDOC, mimeRTF, mimeODT:
		res, err := docconv.Convert(bytes.NewReader(data), kind, true)
		if err != nil {
			return "", &apperr.Error{Kind: apperr.KindBadInput, Msg: "could not read document", Err: err}
		}
		return strings.TrimSpace(res.Body), nil
	default:
		return "", apperr.BadInput("unsupported file type")
	}
}

func detect(fileName, contentType string) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil {
			if alias, ok := aliases[mt]; ok {
				mt = alias
			}
			if _, known := supported[mt]; known {
				return mt
			}
		}
	}
	return byExtension[strings.ToLower(filepath.Ext(fileName))]
}

var supported = func() map[string]struct{} {
	out := make(map[string]struct{}, len(byExtension))
	for _, mt := range byExtension {
		out[mt] = struct{}{}
	}
	return out
}()
