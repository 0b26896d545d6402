package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowerview/flowerview/internal/labels"
)

func newTestRenderer() *Renderer {
	return New(labels.Default())
}

func TestRenderScalars(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name string
		in   Value
		want Node
	}{
		{name: "plain string", in: String("red"), want: Node{Kind: NodeText, Text: "red"}},
		{name: "number", in: Number("5"), want: Node{Kind: NodeText, Text: "5"}},
		{name: "bool", in: Bool(true), want: Node{Kind: NodeText, Text: "true"}},
		{name: "null is empty text", in: Null(), want: Node{Kind: NodeText, Text: ""}},
		{
			name: "http link",
			in:   String("https://example.com/rose.jpg"),
			want: Node{
				Kind:   NodeLink,
				Text:   "https://example.com/rose.jpg",
				Href:   "https://example.com/rose.jpg",
				Target: "_blank",
				Rel:    "noopener noreferrer",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Render(tt.in))
		})
	}
}

func TestIsLink(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com", true},
		{"httpish", true},
		{"ftp://example.com", false},
		{" http://example.com", false},
		{"HTTP://EXAMPLE.COM", false},
		{"", false},
		{"see http://example.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLink(tt.in), "IsLink(%q)", tt.in)
	}
}

func TestRenderNumberLinkPrefixIsText(t *testing.T) {
	// only strings become links
	node := newTestRenderer().Render(Number("1"))
	assert.Equal(t, NodeText, node.Kind)
}

func TestRenderRecordResolvesLabels(t *testing.T) {
	v := Record(
		F("appearance", Record(
			F("petal", Record(
				F("shape", String("oval")),
				F("color", String("red")),
				F("count", Number("5")),
			)),
		)),
		F("soilPH", String("6.5")),
	)

	node := newTestRenderer().Render(v)
	require.Equal(t, NodeTable, node.Kind)
	require.Len(t, node.Rows, 2)

	assert.Equal(t, "Ngoại hình", node.Rows[0].Label)
	assert.Equal(t, "appearance", node.Rows[0].Key)
	assert.Equal(t, "soilPH", node.Rows[1].Label, "unknown keys keep their identifier")

	petal := node.Rows[0].Value.Rows[0]
	assert.Equal(t, "Cánh hoa", petal.Label)
	require.Len(t, petal.Value.Rows, 3)
	assert.Equal(t, "Hình dạng", petal.Value.Rows[0].Label)
	assert.Equal(t, "oval", petal.Value.Rows[0].Value.Text)
	assert.Equal(t, "Số lượng", petal.Value.Rows[2].Label)
	assert.Equal(t, "5", petal.Value.Rows[2].Value.Text)
}

func TestRenderSequence(t *testing.T) {
	v := Sequence(
		String("https://example.com/a.jpg"),
		String("plain"),
		Sequence(Number("1"), Number("2")),
		Record(F("color", String("white"))),
		Null(),
	)

	node := newTestRenderer().Render(v)
	require.Equal(t, NodeList, node.Kind)
	require.Len(t, node.Items, 5)
	assert.Equal(t, NodeLink, node.Items[0].Kind)
	assert.Equal(t, NodeText, node.Items[1].Kind)
	assert.Equal(t, NodeList, node.Items[2].Kind)
	assert.Len(t, node.Items[2].Items, 2)
	assert.Equal(t, NodeTable, node.Items[3].Kind)
	assert.Equal(t, "Màu sắc", node.Items[3].Rows[0].Label)
	assert.Equal(t, Node{Kind: NodeText}, node.Items[4])
}

func TestRenderTotality(t *testing.T) {
	docs := []string{
		`{}`,
		`[]`,
		`{"a": []}`,
		`{"a": {}}`,
		`{"a": [[], [[]], {}]}`,
		`{"a": null, "b": [null, true, 0, -1.5e10]}`,
		`{"sampleImageUrl": ["http://x", "https://y", "nope"]}`,
		`"http"`,
		`null`,
		`[{"a": [{"b": [{"c": "d"}]}]}]`,
	}

	r := newTestRenderer()
	for _, doc := range docs {
		v, err := Parse([]byte(doc))
		require.NoError(t, err, doc)
		assert.NotPanics(t, func() {
			r.Render(v)
			r.RenderTopLevel(v)
		}, doc)
	}
}

func TestRenderTopLevelHeading(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "common name", doc: `{"name": {"commonName": "Rose", "scientificName": "Rosa"}}`, want: "Rose"},
		{name: "missing name", doc: `{"color": "red"}`, want: "Flower Information"},
		{name: "name without common name", doc: `{"name": {"scientificName": "Rosa"}}`, want: "Flower Information"},
		{name: "empty common name", doc: `{"name": {"commonName": ""}}`, want: "Flower Information"},
		{name: "name is a string", doc: `{"name": "Rose"}`, want: "Flower Information"},
		{name: "numeric common name", doc: `{"name": {"commonName": 7}}`, want: "Flower Information"},
		{name: "zero common name", doc: `{"name": {"commonName": 0}}`, want: "Flower Information"},
		{name: "false common name", doc: `{"name": {"commonName": false}}`, want: "Flower Information"},
		{name: "record common name", doc: `{"name": {"commonName": {"vi": "Hoa hồng"}}}`, want: "Flower Information"},
		{name: "non-record root", doc: `["a"]`, want: "Flower Information"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.RenderTopLevel(v).Heading)
		})
	}
}

func TestRenderTopLevelBody(t *testing.T) {
	r := newTestRenderer()

	v, err := Parse([]byte(`{"name": {"commonName": "Rose"}, "origin": "Asia"}`))
	require.NoError(t, err)

	d := r.RenderTopLevel(v)
	assert.Equal(t, "Thuộc tính", d.AttributeColumn)
	assert.Equal(t, "Giá trị", d.ValueColumn)
	require.Equal(t, NodeTable, d.Body.Kind)
	require.Len(t, d.Body.Rows, 2)
	assert.Equal(t, "Tên", d.Body.Rows[0].Label)
	assert.Equal(t, "Nguồn gốc", d.Body.Rows[1].Label)

	empty := r.RenderTopLevel(Null())
	assert.Equal(t, NodeTable, empty.Body.Kind)
	assert.Empty(t, empty.Body.Rows)

	scalar := r.RenderTopLevel(String("just text"))
	assert.Equal(t, Node{Kind: NodeText, Text: "just text"}, scalar.Body)
}

func TestRenderUsesInjectedLabels(t *testing.T) {
	r := New(labels.Table{Fields: map[string]string{"color": "Colour"}, FallbackHeading: "About"})
	d := r.RenderTopLevel(Record(F("color", String("red"))))
	assert.Equal(t, "About", d.Heading)
	assert.Equal(t, "Colour", d.Body.Rows[0].Label)
}

func TestPrintDetail(t *testing.T) {
	v, err := Parse([]byte(`{"name": {"commonName": "Rose"}, "uses": ["tea", "http://x.test"], "petal": {"count": 5}}`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintDetail(&buf, newTestRenderer().RenderTopLevel(v)))

	expected := "Rose\n" +
		"====\n" +
		"Tên:\n" +
		"  Tên thường gọi: Rose\n" +
		"Công dụng:\n" +
		"  - tea\n" +
		"  - <http://x.test>\n" +
		"Cánh hoa:\n" +
		"  Số lượng: 5\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrintNestedListItems(t *testing.T) {
	var buf bytes.Buffer
	node := newTestRenderer().Render(Sequence(Sequence(String("a")), Record(F("k", String("v")))))
	require.NoError(t, Print(&buf, node))
	assert.Equal(t, "-\n  - a\n-\n  k: v\n", buf.String())
}
