// Package results lays out the ranked prediction list.
package results

import (
	"strconv"

	"github.com/flowerview/flowerview/internal/models"
)

// MaxVisible is the most rows the panel shows.
const MaxVisible = 5

// DefaultColor is used for ranks past the end of Palette.
const DefaultColor = "bg-gray"

// Palette holds the row colours for ranks 1 to 5.
var Palette = []string{
	"bg-green",
	"bg-blue",
	"bg-yellow",
	"bg-purple",
	"bg-red",
}

const zeroPercent = "0.00"

// Row is one visible prediction.
type Row struct {
	Rank    int // position in the prediction list, starting at 0
	Class   string
	ClassID string
	Percent string
	Color   string
}

// Label is the row text, e.g. "Rose: 92.00%".
func (r Row) Label() string {
	return r.Class + ": " + r.Percent + "%"
}

// ColorFor returns the palette colour for a list position.
func ColorFor(rank int) string {
	if rank >= 0 && rank < len(Palette) {
		return Palette[rank]
	}
	return DefaultColor
}

// FormatPercent formats a confidence in [0,1] as a percentage with two decimals.
func FormatPercent(confidence float64) string {
	return strconv.FormatFloat(confidence*100, 'f', 2, 64)
}

// Rows returns the visible rows for predictions. Entries whose percentage
// rounds to 0.00 are skipped without shifting the colour of later rows; the
// prediction list itself is not modified.
func Rows(predictions []models.Prediction) []Row {
	rows := make([]Row, 0, MaxVisible)
	for i, p := range predictions {
		if len(rows) == MaxVisible {
			break
		}
		pct := FormatPercent(p.Confidence)
		if pct == zeroPercent {
			continue
		}
		rows = append(rows, Row{
			Rank:    i,
			Class:   p.Class,
			ClassID: p.ClassID,
			Percent: pct,
			Color:   ColorFor(i),
		})
	}
	return rows
}
