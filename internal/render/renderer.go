// Package render turns arbitrarily nested metadata records into a
// presentation tree of lists, key/value tables, links and text.
package render

import (
	"strings"

	"github.com/flowerview/flowerview/internal/labels"
)

// NodeKind identifies the shape of a presentation node.
type NodeKind uint8

const (
	NodeText NodeKind = iota
	NodeLink
	NodeList
	NodeTable
)

func (k NodeKind) String() string {
	switch k {
	case NodeLink:
		return "link"
	case NodeList:
		return "list"
	case NodeTable:
		return "table"
	default:
		return "text"
	}
}

// Node is the renderer's output.
type Node struct {
	Kind   NodeKind
	Text   string
	Href   string
	Target string
	Rel    string
	Items  []Node
	Rows   []Row
}

// Row is one label/value line of a table node.
type Row struct {
	Key   string
	Label string
	Value Node
}

// Detail is the rendered form of a whole record as shown in the detail view.
type Detail struct {
	Heading         string
	AttributeColumn string
	ValueColumn     string
	Body            Node
}

const (
	linkPrefix = "http"
	linkTarget = "_blank"
	linkRel    = "noopener noreferrer"
)

// IsLink reports whether s is rendered as an external hyperlink.
func IsLink(s string) bool {
	return strings.HasPrefix(s, linkPrefix)
}

// Renderer renders values using an injected label table.
type Renderer struct {
	labels labels.Table
}

func New(table labels.Table) *Renderer {
	return &Renderer{labels: table}
}

// Render converts any value into a presentation node. It never fails.
func (r *Renderer) Render(v Value) Node {
	switch v.Kind() {
	case KindSequence:
		items := make([]Node, 0, len(v.Items()))
		for _, item := range v.Items() {
			items = append(items, r.Render(item))
		}
		return Node{Kind: NodeList, Items: items}
	case KindRecord:
		return r.table(v)
	case KindString:
		if s, _ := v.Str(); IsLink(s) {
			return Node{Kind: NodeLink, Text: s, Href: s, Target: linkTarget, Rel: linkRel}
		}
	}
	return Node{Kind: NodeText, Text: v.Text()}
}

func (r *Renderer) table(v Value) Node {
	rows := make([]Row, 0, len(v.Fields()))
	for _, f := range v.Fields() {
		rows = append(rows, Row{
			Key:   f.Key,
			Label: r.labels.Resolve(f.Key),
			Value: r.Render(f.Value),
		})
	}
	return Node{Kind: NodeTable, Rows: rows}
}

// RenderTopLevel renders the record shown in the detail view. The heading is
// the record's name.commonName when that is a non-empty string.
func (r *Renderer) RenderTopLevel(v Value) Detail {
	d := Detail{
		Heading:         r.heading(v),
		AttributeColumn: r.labels.AttributeColumn,
		ValueColumn:     r.labels.ValueColumn,
	}
	switch v.Kind() {
	case KindRecord:
		d.Body = r.table(v)
	case KindNull:
		d.Body = Node{Kind: NodeTable, Rows: []Row{}}
	default:
		d.Body = r.Render(v)
	}
	return d
}

func (r *Renderer) heading(v Value) string {
	if name, ok := v.Get("name"); ok {
		if common, ok := name.Get("commonName"); ok {
			if text, ok := common.Str(); ok && text != "" {
				return text
			}
		}
	}
	return r.labels.FallbackHeading
}
