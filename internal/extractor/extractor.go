// Package extractor turns an uploaded file's bytes into plain UTF-8 text.
// Dispatch is by declared MIME type only; content is never sniffed.
package extractor

import "errors"

const (
	MIMETypePDF  = "application/pdf"
	MIMETypeText = "text/plain"
)

// ErrUnsupportedType is returned for any type other than plain text or PDF.
var ErrUnsupportedType = errors.New("unsupported file type")

// Extract converts file bytes to text based on the declared MIME type. The
// type must already be stripped of parameters ("text/plain", not
// "text/plain; charset=utf-8").
func Extract(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MIMETypeText:
		return ExtractTXT(data)
	case MIMETypePDF:
		return ExtractPDF(data)
	default:
		return "", ErrUnsupportedType
	}
}
