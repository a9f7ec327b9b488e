package exporter

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/kova98/painhunt.api/metrics"
	"github.com/kova98/painhunt.api/models"
)

const (
	ContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	AllSheetName = "All results"

	allHeaderColor    = "1A1A2E"
	sourceHeaderColor = "E94560"
	shadeColor        = "F8F9FA"
	linkColor         = "0563C1"

	headerRowHeight = 28
	dataRowHeight   = 60
	maxSheetName    = 31

	// historySheetName is reserved by Excel, case-insensitively.
	historySheetName = "History"
)

type column struct {
	header string
	width  float64
}

var columns = []column{
	{"Date", 14},
	{"Subreddit", 18},
	{"Matched keyword", 28},
	{"Title", 50},
	{"Body", 70},
	{"URL", 50},
	{"Score", 10},
	{"Comments", 14},
	{"Author", 20},
}

// urlColumn is the 1-based index of the URL column.
const urlColumn = 6

// FileName is the download name for an export produced at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("pain_points_%s.xlsx", t.UTC().Format(time.DateOnly))
}

// Export renders posts into an xlsx workbook: one sheet with everything and
// one sheet per source, each sorted by score descending.
func Export(posts []models.Post) ([]byte, error) {
	buf, err := export(posts)
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}
	metrics.Exports.WithLabelValues(metrics.ResultOK).Inc()
	return buf, nil
}

func export(posts []models.Post) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(&excelize.DocProperties{
		Creator: "Pain Point Hunter",
		Created: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, errors.Wrap(err, "set doc props")
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	sorted := SortByScore(posts)

	if err := f.SetSheetName(f.GetSheetName(0), AllSheetName); err != nil {
		return nil, errors.Wrap(err, "rename default sheet")
	}
	if err := writeSheet(f, AllSheetName, styles.allHeader, styles, sorted); err != nil {
		return nil, err
	}

	names := newSheetNamer(AllSheetName, historySheetName)
	for _, group := range groupBySource(sorted) {
		name := names.name(group.source)
		if _, err := f.NewSheet(name); err != nil {
			return nil, errors.Wrapf(err, "create sheet %q", name)
		}
		if err := writeSheet(f, name, styles.sourceHeader, styles, group.posts); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

// SortByScore returns a copy of posts ordered by score, highest first.
// Posts with equal scores keep their relative order.
func SortByScore(posts []models.Post) []models.Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b models.Post) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return sorted
}

type sourceGroup struct {
	source string
	posts  []models.Post
}

// groupBySource splits posts per source in order of first appearance.
func groupBySource(posts []models.Post) []sourceGroup {
	index := make(map[string]int)
	var groups []sourceGroup
	for _, p := range posts {
		i, ok := index[p.Source]
		if !ok {
			i = len(groups)
			index[p.Source] = i
			groups = append(groups, sourceGroup{source: p.Source})
		}
		groups[i].posts = append(groups[i].posts, p)
	}
	return groups
}

type sheetStyles struct {
	allHeader    int
	sourceHeader int
	row          int
	shadedRow    int
	link         int
	shadedLink   int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	header := func(color string) *excelize.Style {
		return &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    []excelize.Border{{Type: "bottom", Color: "CCCCCC", Style: 1}},
		}
	}
	row := func(shaded, link bool) *excelize.Style {
		st := &excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		}
		if shaded {
			st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{shadeColor}}
		}
		if link {
			st.Font = &excelize.Font{Color: linkColor, Underline: "single"}
		}
		return st
	}

	if s.allHeader, err = f.NewStyle(header(allHeaderColor)); err != nil {
		return s, errors.Wrap(err, "header style")
	}
	if s.sourceHeader, err = f.NewStyle(header(sourceHeaderColor)); err != nil {
		return s, errors.Wrap(err, "header style")
	}
	if s.row, err = f.NewStyle(row(false, false)); err != nil {
		return s, errors.Wrap(err, "row style")
	}
	if s.shadedRow, err = f.NewStyle(row(true, false)); err != nil {
		return s, errors.Wrap(err, "row style")
	}
	if s.link, err = f.NewStyle(row(false, true)); err != nil {
		return s, errors.Wrap(err, "link style")
	}
	if s.shadedLink, err = f.NewStyle(row(true, true)); err != nil {
		return s, errors.Wrap(err, "link style")
	}
	return s, nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, styles sheetStyles, posts []models.Post) error {
	lastCol, _ := excelize.ColumnNumberToName(len(columns))

	headers := make([]interface{}, len(columns))
	for i, c := range columns {
		headers[i] = c.header
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return errors.Wrapf(err, "%s: column width", sheet)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return errors.Wrapf(err, "%s: header", sheet)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return errors.Wrapf(err, "%s: header style", sheet)
	}
	if err := f.SetRowHeight(sheet, 1, headerRowHeight); err != nil {
		return errors.Wrapf(err, "%s: header height", sheet)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return errors.Wrapf(err, "%s: freeze header", sheet)
	}

	for i, p := range posts {
		row := i + 2
		if err := writeRow(f, sheet, row, p, styles); err != nil {
			return errors.Wrapf(err, "%s: row %d", sheet, row)
		}
	}

	lastRow := len(posts) + 1
	if err := f.AutoFilter(sheet, "A1:"+lastCol+strconv.Itoa(lastRow), nil); err != nil {
		return errors.Wrapf(err, "%s: autofilter", sheet)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, p models.Post, styles sheetStyles) error {
	first := "A" + strconv.Itoa(row)
	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	urlCol, _ := excelize.ColumnNumberToName(urlColumn)
	urlCell := urlCol + strconv.Itoa(row)

	values := []interface{}{
		formatDate(p.CreatedAt),
		"r/" + p.Source,
		p.MatchedKeyword,
		p.Title,
		p.Body,
		p.URL,
		p.Score,
		p.CommentCount,
		p.Author,
	}
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}

	rowStyle, linkStyle := styles.row, styles.link
	if row%2 == 0 {
		rowStyle, linkStyle = styles.shadedRow, styles.shadedLink
	}
	if err := f.SetCellStyle(sheet, first, lastCol+strconv.Itoa(row), rowStyle); err != nil {
		return err
	}
	if p.URL != "" {
		if err := f.SetCellHyperLink(sheet, urlCell, p.URL, "External"); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, urlCell, urlCell, linkStyle); err != nil {
			return err
		}
	}
	return f.SetRowHeight(sheet, row, dataRowHeight)
}

func formatDate(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format(time.DateOnly)
}

// sheetNamer turns source identifiers into unique, legal sheet names.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer(reserved ...string) *sheetNamer {
	n := &sheetNamer{used: make(map[string]bool)}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = true
	}
	return n
}

func (n *sheetNamer) name(source string) string {
	base := SanitizeSheetName(source)
	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

// SanitizeSheetName strips what Excel forbids in a sheet name and the "r/"
// display prefix. It never returns an empty string.
func SanitizeSheetName(source string) string {
	name := strings.TrimSpace(source)
	name = strings.TrimPrefix(name, "/")
	if len(name) >= 2 && strings.EqualFold(name[:2], "r/") {
		name = name[2:]
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, "' ")
	name = truncateRunes(name, maxSheetName)
	name = strings.TrimRight(name, "' ")
	if name == "" {
		return "source"
	}
	return name
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
