package report

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pocket/internal/ledger"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

const htmlHead = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Pocket summary</title></head>
<body>
`

// SummaryHTML renders SummaryMarkdown as a standalone HTML page.
func SummaryHTML(l *ledger.Ledger) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(htmlHead)
	if err := md.Convert([]byte(SummaryMarkdown(l)), &buf); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}
