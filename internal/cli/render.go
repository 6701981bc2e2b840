package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/crateq/internal/library"
)

// theme holds the styles used for command output.
type theme struct {
	header  lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	error   lipgloss.Style
}

// newTheme builds styles for w; colors are dropped when w is not a
// terminal.
func newTheme(w io.Writer) *theme {
	r := lipgloss.NewRenderer(w)
	return &theme{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#a78bfa")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#808080")),
		success: r.NewStyle().Foreground(lipgloss.Color("#42b883")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#f1a208")),
		error:   r.NewStyle().Foreground(lipgloss.Color("#ff5555")),
	}
}

// sanitize drops control characters and invalid UTF-8 from tag text so
// a bad tag cannot break the table layout.
func sanitize(s string) string {
	clean := true
	for _, r := range s {
		if r == utf8.RuneError || r == '\u00a0' || unicode.IsControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\t' || r == '\u00a0':
			b.WriteByte(' ')
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type align int

const (
	alignLeft align = iota
	alignRight
)

// column describes a table column. A zero maxWidth leaves the column
// unbounded.
type column struct {
	title    string
	maxWidth int
	align    align
}

// table lays out rows in columns sized to their widest cell.
type table struct {
	columns []column
	rows    [][]string
}

func newTable(columns ...column) *table {
	return &table{columns: columns}
}

func (t *table) add(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = sanitize(cells[i])
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for i, c := range t.columns {
		if c.maxWidth > 0 {
			widths[i] = min(widths[i], c.maxWidth)
		}
	}
	return widths
}

func (t *table) cell(s string, width int, a align) string {
	s = runewidth.Truncate(s, width, "…")
	if a == alignRight {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func (t *table) line(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, s := range cells {
		parts[i] = t.cell(s, widths[i], t.columns[i].align)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

// render writes the header and rows to w.
func (t *table) render(w io.Writer, th *theme) {
	widths := t.widths()

	titles := make([]string, len(t.columns))
	for i, c := range t.columns {
		titles[i] = c.title
	}
	fmt.Fprintln(w, th.header.Render(t.line(titles, widths)))

	for _, row := range t.rows {
		fmt.Fprintln(w, t.line(row, widths))
	}
}

// formatDuration renders seconds as m:ss, or h:mm:ss from one hour.
func formatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatBpm(t *library.Track) string {
	if !t.HasBpm() {
		return ""
	}
	return humanize.FtoaWithDigits(t.BPM, 2)
}

func formatKey(t *library.Track) string {
	if t.Key.Valid() {
		return t.Key.String() + " " + t.Key.Camelot()
	}
	return t.KeyText
}

// formatAdded renders the import time relative to now.
func formatAdded(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// plural renders a count with its noun, e.g. "1,204 tracks".
func plural(n int, noun string) string {
	s := humanize.Comma(int64(n)) + " " + noun
	if n != 1 {
		s += "s"
	}
	return s
}

// trackTable lists tracks with their identifying and mixing columns.
func trackTable(tracks []library.Track) *table {
	t := newTable(
		column{title: "ID", align: alignRight},
		column{title: "ARTIST", maxWidth: 28},
		column{title: "TITLE", maxWidth: 36},
		column{title: "BPM", align: alignRight},
		column{title: "KEY"},
		column{title: "TIME", align: alignRight},
		column{title: "YEAR"},
		column{title: "ADDED"},
	)
	for i := range tracks {
		tr := &tracks[i]
		t.add(
			humanize.Comma(tr.ID),
			tr.Artist,
			tr.Title,
			formatBpm(tr),
			formatKey(tr),
			formatDuration(tr.Duration),
			tr.Year,
			formatAdded(tr.DateAdded),
		)
	}
	return t
}

// printTracks renders at most limit tracks and a footer with the total.
func (a *app) printTracks(tracks []library.Track, limit int) {
	shown := tracks
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	trackTable(shown).render(a.stdout, a.theme)

	footer := plural(len(tracks), "track")
	if len(shown) < len(tracks) {
		footer += fmt.Sprintf(", %s shown", humanize.Comma(int64(len(shown))))
	}
	fmt.Fprintln(a.stdout, a.theme.muted.Render(footer))
}
