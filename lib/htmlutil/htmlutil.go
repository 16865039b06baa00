package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node`.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CellTexts returns the trimmed text of every <td> inside a table row.
func CellTexts(row *goquery.Selection) []string {
	cells := row.Find("td")
	out := make([]string, 0, cells.Length())
	for _, n := range cells.Nodes {
		out = append(out, strings.TrimSpace(GetText(n)))
	}
	return out
}

// LastSegment splits `text` on `sep` and returns the trimmed final piece,
// a text without `sep` is returned trimmed as is.
func LastSegment(text, sep string) string {
	idx := strings.LastIndex(text, sep)
	if idx < 0 {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[idx+len(sep):])
}
