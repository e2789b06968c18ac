package export

import (
	"html"
	"strings"

	"github.com/mikael-ade/transdoc/internal/models"
)

// utf8BOM marks the stream as UTF-8 for word processors that sniff encoding.
const utf8BOM = "\uFEFF"

const docHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Extracted Document</title>
</head>
<body>
`

const docFooter = `</body>
</html>
`

func wordDocument(res models.Result) []byte {
	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(docHeader)

	switch res.Kind {
	case models.ResultText:
		writeTextBlock(&b, res.Text)
	case models.ResultTabular:
		for _, sheet := range res.Sheets {
			writeSheetTable(&b, sheet)
		}
	}

	b.WriteString(docFooter)
	return []byte(b.String())
}

// writeTextBlock wraps the text verbatim in a monospace, whitespace-preserving
// block. html.EscapeString covers the five standard entities (& < > " ').
func writeTextBlock(b *strings.Builder, text string) {
	b.WriteString(`<pre style="font-family: monospace; white-space: pre-wrap;">`)
	b.WriteString(html.EscapeString(text))
	b.WriteString("</pre>\n")
}

// writeSheetTable emits one heading and one table per unit. The first matrix
// row becomes the header row; empty cells render as empty strings.
func writeSheetTable(b *strings.Builder, sheet models.Sheet) {
	b.WriteString("<h2>")
	b.WriteString(html.EscapeString(sheet.Name))
	b.WriteString("</h2>\n")
	b.WriteString(`<table border="1" style="border-collapse: collapse;">` + "\n")

	for r, row := range sheet.Rows {
		tag := "td"
		if r == 0 {
			tag = "th"
		}
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<" + tag + ">")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</" + tag + ">")
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</table>\n")
}
