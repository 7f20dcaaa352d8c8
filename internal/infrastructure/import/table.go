package statementimport

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// firstTable returns the text of every cell of the document's first <table>, row by row.
// Cells spanning several columns are repeated once per column. Rows of nested tables
// are not included.
func firstTable(doc []byte) ([][]string, bool) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, false
	}
	table := findFirst(root, atom.Table)
	if table == nil {
		return nil, false
	}

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, rowCells(c))
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(table)
	return rows, true
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		text := cellText(c)
		for i := 0; i < colspan(c); i++ {
			cells = append(cells, text)
		}
	}
	return cells
}

func colspan(n *html.Node) int {
	for _, attr := range n.Attr {
		if attr.Key == "colspan" {
			if span, err := strconv.Atoi(strings.TrimSpace(attr.Val)); err == nil && span > 1 {
				return span
			}
		}
	}
	return 1
}

// cellText joins the text nodes below n and collapses whitespace, &nbsp; included
func cellText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
