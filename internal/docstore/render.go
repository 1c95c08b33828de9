package docstore

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

var markdown = goldmark.New()

// Render produces the response body and content type for a document:
// .txt content is served verbatim as plain text, .md content is converted
// to an HTML fragment.
func (d *Document) Render() ([]byte, string, error) {
	switch d.Kind {
	case KindText:
		return d.Content, "text/plain; charset=utf-8", nil
	case KindMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert(d.Content, &buf); err != nil {
			return nil, "", fmt.Errorf("render %s: %w", d.Name, err)
		}
		return buf.Bytes(), "text/html; charset=utf-8", nil
	}
	return nil, "", ErrUnsupportedType
}
