package chessresults

import "testing"

const standingsFixture = `<html>
<head><title>Chess-Results Server Chess-results.com - Nakuru Open 2025 Open Section</title></head>
<body>
<h2>Final Ranking after 6 Rounds</h2>
<p>15.03.2025 - 17.03.2025</p>
<table class="CRs1">
<tr><th>Rk.</th><th>SNo</th><th>Name</th><th>sex</th><th>FED</th><th>Rtg</th><th>Pts.</th><th>rp</th></tr>
<tr><td>1</td><td>3</td><td>Mwangi, Brian</td><td></td><td>KEN</td><td>1846</td><td>5,5</td><td>2011</td></tr>
<tr><td>2</td><td>1</td><td>Otieno, Kevin</td><td></td><td>KEN</td><td>1902</td><td>5</td><td>1987</td></tr>
<tr><td>3</td><td>8</td><td>Auma, Faith</td><td>w</td><td>KEN</td><td>1533</td><td>4.5</td><td>-</td></tr>
<tr><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td></td></tr>
<tr><td>4</td><td>12</td><td>Njoroge, Dennis</td><td></td><td>UGA</td><td>0</td><td>4</td><td>1720</td></tr>
</table>
</body></html>`

func TestParseStandingsPage(t *testing.T) {
	t.Parallel()

	parsed, err := Parse(standingsFixture, "1095243")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if parsed.Name != "Nakuru Open 2025" {
		t.Fatalf("expected name without suffix, got=%q", parsed.Name)
	}
	if parsed.Rounds != 6 {
		t.Fatalf("expected rounds=6 from banner, got=%d", parsed.Rounds)
	}
	if parsed.StartDate == nil || parsed.EndDate == nil {
		t.Fatal("expected both dates parsed")
	}
	if got := parsed.StartDate.Format("2006-01-02"); got != "2025-03-15" {
		t.Fatalf("expected start 2025-03-15, got=%s", got)
	}
	if got := parsed.EndDate.Format("2006-01-02"); got != "2025-03-17" {
		t.Fatalf("expected end 2025-03-17, got=%s", got)
	}

	if len(parsed.Rows) != 4 {
		t.Fatalf("expected 4 rows (blank row dropped), got=%d", len(parsed.Rows))
	}

	first := parsed.Rows[0]
	if first.Rank != 1 || first.StartRank != 3 {
		t.Fatalf("unexpected first row ranks: %+v", first)
	}
	if first.Points != 5.5 {
		t.Fatalf("expected comma decimal parsed to 5.5, got=%v", first.Points)
	}
	if first.TPR == nil || *first.TPR != 2011 {
		t.Fatalf("expected tpr=2011, got=%v", first.TPR)
	}

	if parsed.Rows[2].TPR != nil {
		t.Fatalf("expected dash tpr dropped, got=%v", *parsed.Rows[2].TPR)
	}
	if parsed.Rows[2].Sex != "w" {
		t.Fatalf("expected sex carried verbatim, got=%q", parsed.Rows[2].Sex)
	}
	if parsed.Rows[3].Federation != "UGA" {
		t.Fatalf("expected foreign federation kept, got=%q", parsed.Rows[3].Federation)
	}
}

func TestParseRoundsPrecedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want int
	}{
		{
			name: "banner beats round columns",
			body: `<h2>Final Ranking after 6 Rounds</h2><table class="CRs1"><tr><th>Rk.</th><th>Name</th><th>Rd.9</th></tr><tr><td>1</td><td>A</td><td>1</td></tr></table>`,
			want: 6,
		},
		{
			name: "round columns beat details row",
			body: `<table class="CRs1"><tr><th>Rk.</th><th>Name</th><th>Rd.1</th><th>Rd.7</th></tr><tr><td>1</td><td>A</td><td>1</td><td>0</td></tr></table><table><tr><td>Number of rounds</td><td>5</td></tr></table>`,
			want: 7,
		},
		{
			name: "details row beats nav links",
			body: `<table class="CRs1"><tr><th>Rk.</th><th>Name</th></tr><tr><td>1</td><td>A</td></tr></table><table><tr><td>Number of rounds</td><td>5</td></tr></table><a href="tnr1.aspx?rd=9">r</a>`,
			want: 5,
		},
		{
			name: "nav links as last signal",
			body: `<table class="CRs1"><tr><th>Rk.</th><th>Name</th></tr><tr><td>1</td><td>A</td></tr></table><a href="tnr1.aspx?rd=3">r</a><a href="tnr1.aspx?rd=8">r</a>`,
			want: 8,
		},
		{
			name: "no signal yields zero",
			body: `<table class="CRs1"><tr><th>Rk.</th><th>Name</th></tr><tr><td>1</td><td>A</td></tr></table>`,
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><head><title>a - b - c - Test Open</title></head><body>` + tc.body + `</body></html>`
			parsed, err := Parse(html, "1")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if parsed.Rounds != tc.want {
				t.Fatalf("expected rounds=%d, got=%d", tc.want, parsed.Rounds)
			}
		})
	}
}

func TestParseSingleDateDoubles(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>a - b - c - One Day Rapid</title></head><body>
<p>05.01.2025 and again 05.01.2025</p>
<table class="CRs1"><tr><th>Rk.</th><th>Name</th></tr><tr><td>1</td><td>A</td></tr></table>
</body></html>`

	parsed, err := Parse(html, "7")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.StartDate == nil || parsed.EndDate == nil {
		t.Fatal("expected dates set")
	}
	if !parsed.StartDate.Equal(*parsed.EndDate) {
		t.Fatal("expected single date to double as start and end")
	}
}

func TestParseMissingTableAborts(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>a - b - c - Lost Event</title></head><body><p>nothing</p></body></html>`
	if _, err := Parse(html, "9"); err == nil {
		t.Fatal("expected error for missing standings table")
	}
}

func TestParseMissingColumnsWarn(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>a - b - c - Sparse Event</title></head><body>
<table class="CRs1"><tr><th>Rk.</th><th>Name</th></tr><tr><td>1</td><td>A</td></tr></table>
</body></html>`

	parsed, err := Parse(html, "11")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(parsed.Warnings) == 0 {
		t.Fatal("expected missing-column warnings")
	}
	if len(parsed.Rows) != 1 {
		t.Fatalf("expected sparse row still parsed, got=%d", len(parsed.Rows))
	}
}

func TestParseDetailsPage(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<table><tr><td>Number of rounds</td><td>8</td></tr>
<tr><td>Date</td><td>02.05.2025 to 04.05.2025</td></tr></table>
</body></html>`

	d, err := ParseDetails(html)
	if err != nil {
		t.Fatalf("ParseDetails: %v", err)
	}
	if !d.RoundsFound || d.Rounds != 8 {
		t.Fatalf("expected rounds=8 found, got=%+v", d)
	}
	if d.StartDate == nil || d.EndDate == nil {
		t.Fatal("expected dates parsed")
	}
}
