package render

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "  "

// Print writes a plain-text rendering of n, one line per scalar, nested
// lists and tables indented below their parent.
func Print(w io.Writer, n Node) error {
	return printNode(w, n, 0)
}

// PrintDetail writes the heading followed by the body.
func PrintDetail(w io.Writer, d Detail) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", d.Heading, strings.Repeat("=", len([]rune(d.Heading)))); err != nil {
		return err
	}
	return Print(w, d.Body)
}

func printNode(w io.Writer, n Node, depth int) error {
	indent := strings.Repeat(indentUnit, depth)
	switch n.Kind {
	case NodeList:
		for _, item := range n.Items {
			if isInline(item) {
				if _, err := fmt.Fprintf(w, "%s- %s\n", indent, inline(item)); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(w, "%s-\n", indent); err != nil {
				return err
			}
			if err := printNode(w, item, depth+1); err != nil {
				return err
			}
		}
	case NodeTable:
		for _, row := range n.Rows {
			if isInline(row.Value) {
				if _, err := fmt.Fprintf(w, "%s%s: %s\n", indent, row.Label, inline(row.Value)); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(w, "%s%s:\n", indent, row.Label); err != nil {
				return err
			}
			if err := printNode(w, row.Value, depth+1); err != nil {
				return err
			}
		}
	default:
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, inline(n)); err != nil {
			return err
		}
	}
	return nil
}

func isInline(n Node) bool {
	return n.Kind == NodeText || n.Kind == NodeLink
}

func inline(n Node) string {
	if n.Kind == NodeLink {
		return "<" + n.Href + ">"
	}
	return n.Text
}
