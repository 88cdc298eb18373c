package chessresults

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// standingsTableClass marks the results grid on every chess-results view.
const standingsTableClass = "CRs1"

var (
	finalRankingRegex = regexp.MustCompile(`(?i)final ranking after (\d+) rounds`)
	roundColumnRegex  = regexp.MustCompile(`Rd\.(\d+)`)
	roundLinkRegex    = regexp.MustCompile(`[?&]rd=(\d+)`)
	dateRegex         = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)
	leadingIntRegex   = regexp.MustCompile(`^\d+`)
)

// tprColumns in priority order. The first header present wins, even when its
// cell turns out to be empty.
var tprColumns = []string{"rp", "tb6", "tpr", "perf"}

// Parse extracts a tournament from a standings page. Only a missing standings
// table or an unrecoverable name abort the parse; individual defective rows
// are dropped and column gaps are reported as warnings.
func Parse(html, tournamentID string) (*Tournament, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse standings html: %w", err)
	}

	name, err := parseName(doc)
	if err != nil {
		return nil, err
	}

	t := &Tournament{
		ID:   tournamentID,
		Name: name,
	}

	pageText := doc.Text()
	t.Rounds = inferRounds(doc, pageText)
	t.StartDate, t.EndDate = parseDates(pageText)

	rows, warnings, err := parseStandings(doc)
	if err != nil {
		return nil, err
	}
	t.Rows = rows
	t.Warnings = warnings

	return t, nil
}

// ParseDetails extracts the round count and dates from a details page.
func ParseDetails(html string) (Details, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Details{}, fmt.Errorf("parse details html: %w", err)
	}

	var d Details
	if rounds, ok := roundsFromDetailRows(doc); ok {
		d.Rounds = rounds
		d.RoundsFound = true
	}
	d.StartDate, d.EndDate = parseDates(doc.Text())

	return d, nil
}

// parseName pulls the tournament name out of the page title. The title leads
// with three boilerplate dash-separated parts ("Chess", "Results Server
// Chess", "results.com") before the actual name.
func parseName(doc *goquery.Document) (string, error) {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", fmt.Errorf("page has no title")
	}

	parts := strings.Split(title, "-")
	var name string
	if len(parts) > 3 {
		trimmed := make([]string, 0, len(parts)-3)
		for _, p := range parts[3:] {
			trimmed = append(trimmed, strings.TrimSpace(p))
		}
		name = strings.TrimSpace(strings.Join(trimmed, " "))
	} else {
		name = strings.TrimSpace(parts[len(parts)-1])
	}

	const redundantSuffix = "open section"
	if strings.HasSuffix(strings.ToLower(name), redundantSuffix) {
		name = strings.TrimSpace(name[:len(name)-len(redundantSuffix)])
	}

	if name == "" {
		return "", fmt.Errorf("tournament name missing from title %q", title)
	}
	return name, nil
}

// inferRounds walks the page signals in decreasing reliability: the final
// ranking banner, the per-round result columns, an inline details row, and
// finally the round navigation links. Zero means nothing matched.
func inferRounds(doc *goquery.Document, pageText string) int {
	if m := finalRankingRegex.FindStringSubmatch(pageText); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}

	if n := maxSubmatch(roundColumnRegex, pageText); n > 0 {
		return n
	}

	if n, ok := roundsFromDetailRows(doc); ok {
		return n
	}

	var links strings.Builder
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links.WriteString(href)
		links.WriteByte('\n')
	})
	if n := maxSubmatch(roundLinkRegex, links.String()); n > 0 {
		return n
	}

	return 0
}

func roundsFromDetailRows(doc *goquery.Document) (int, bool) {
	rounds := 0
	found := false
	doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return true
		}
		if !strings.EqualFold(strings.TrimSpace(cells.Eq(0).Text()), "number of rounds") {
			return true
		}
		n, err := strconv.Atoi(strings.TrimSpace(cells.Eq(1).Text()))
		if err != nil || n <= 0 {
			return true
		}
		rounds = n
		found = true
		return false
	})
	return rounds, found
}

func maxSubmatch(re *regexp.Regexp, text string) int {
	max := 0
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}
	return max
}

// parseDates collects DD.MM.YYYY occurrences in page order. The first two
// distinct dates are the start and end; a single date serves as both.
func parseDates(text string) (*time.Time, *time.Time) {
	var distinct []string
	for _, raw := range dateRegex.FindAllString(text, -1) {
		seen := false
		for _, d := range distinct {
			if d == raw {
				seen = true
				break
			}
		}
		if !seen {
			distinct = append(distinct, raw)
		}
		if len(distinct) == 2 {
			break
		}
	}

	if len(distinct) == 0 {
		return nil, nil
	}

	start := parseGermanDate(distinct[0])
	if start == nil {
		return nil, nil
	}
	end := start
	if len(distinct) > 1 {
		if parsed := parseGermanDate(distinct[1]); parsed != nil {
			end = parsed
		}
	}
	return start, end
}

func parseGermanDate(raw string) *time.Time {
	t, err := time.Parse("02.01.2006", raw)
	if err != nil {
		return nil
	}
	return &t
}

// columnIndex maps the standings headers we care about to cell positions.
// A value of -1 means the column is absent.
type columnIndex struct {
	rank      int
	startRank int
	name      int
	fed       int
	sex       int
	rating    int
	points    int
	tpr       int
}

func resolveColumns(headers []string) (columnIndex, []string) {
	idx := columnIndex{rank: -1, startRank: -1, name: -1, fed: -1, sex: -1, rating: -1, points: -1, tpr: -1}

	find := func(candidates ...string) int {
		for _, want := range candidates {
			for i, h := range headers {
				if h == want {
					return i
				}
			}
		}
		return -1
	}

	idx.rank = find("rk.", "rk", "rank")
	idx.startRank = find("sno", "no.")
	idx.name = find("name")
	idx.fed = find("fed")
	idx.sex = find("sex")
	idx.rating = find("rtg", "rtgi")
	idx.points = find("pts.", "pts")
	idx.tpr = find(tprColumns...)

	var warnings []string
	report := func(col string, i int) {
		if i < 0 {
			warnings = append(warnings, "standings column missing: "+col)
		}
	}
	report("rank", idx.rank)
	report("start rank", idx.startRank)
	report("federation", idx.fed)
	report("rating", idx.rating)
	report("points", idx.points)
	report("tpr", idx.tpr)

	return idx, warnings
}

func parseStandings(doc *goquery.Document) ([]Row, []string, error) {
	table := doc.Find("table." + standingsTableClass).First()
	if table.Length() == 0 {
		return nil, nil, fmt.Errorf("standings table not found")
	}

	trs := table.Find("tr")
	if trs.Length() < 1 {
		return nil, nil, fmt.Errorf("standings table is empty")
	}

	var headers []string
	trs.Eq(0).Find("th, td").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, strings.ToLower(strings.TrimSpace(s.Text())))
	})

	idx, warnings := resolveColumns(headers)
	if idx.name < 0 {
		return nil, nil, fmt.Errorf("standings table has no name column")
	}

	var rows []Row
	trs.Slice(1, trs.Length()).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < len(headers) {
			return
		}

		cell := func(i int) string {
			if i < 0 || i >= cells.Length() {
				return ""
			}
			return strings.TrimSpace(cells.Eq(i).Text())
		}

		rank := leadingInt(cell(idx.rank))
		name := cell(idx.name)
		if rank <= 0 || name == "" {
			return
		}

		row := Row{
			Rank:       rank,
			StartRank:  leadingInt(cell(idx.startRank)),
			Name:       name,
			Federation: cell(idx.fed),
			Sex:        cell(idx.sex),
			Rating:     leadingInt(cell(idx.rating)),
			Points:     parsePoints(cell(idx.points)),
		}
		if tpr := parseTPR(cell(idx.tpr)); tpr > 0 {
			row.TPR = &tpr
		}
		rows = append(rows, row)
	})

	return rows, warnings, nil
}

// leadingInt parses the leading digit run, tolerating suffixes like "1.".
func leadingInt(s string) int {
	m := leadingIntRegex.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// parsePoints tolerates the comma decimal separator some language views use.
func parsePoints(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseTPR(s string) int {
	if s == "" || s == "-" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
