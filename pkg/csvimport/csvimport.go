package csvimport

import (
	"math"
	"strconv"
	"strings"

	"trendscope/internal/model"
)

// MaxRows caps how many parsed rows leave the mapper in one import.
const MaxRows = 500

// RawRecord maps a header name to the cell value for one data line.
type RawRecord map[string]string

// Result carries the capped rows plus the true number of rows that resolved a
// post id, which can exceed len(Rows).
type Result struct {
	Rows    []model.ParsedPost
	Matched int
}

// Alias tables for column resolution, in strict priority order: the first
// candidate present with a non-empty value wins.
var (
	postIDAliases    = []string{"Video ID", "video_id", "post_id", "id", "Post ID", "Content ID"}
	createdAliases   = []string{"Created", "created_time", "Create time", "createdAt", "Publish time", "Published At"}
	dateAliases      = []string{"Date", "date", "Day"}
	captionAliases   = []string{"Caption", "caption", "Description", "description", "Title", "title"}
	permalinkAliases = []string{"Permalink", "permalink", "URL", "url", "Link", "link"}
	viewsAliases     = []string{"Views", "views", "Video views", "Impressions", "impressions"}
	likesAliases     = []string{"Likes", "likes"}
	commentsAliases  = []string{"Comments", "comments"}
	sharesAliases    = []string{"Shares", "shares"}
	savesAliases     = []string{"Saves", "saves", "Favorites", "favorites"}
)

// Parse splits CSV text into per-row header->value records. Accepts CRLF and
// LF line endings and both quoted and bare fields. Returns nil when the input
// has no header plus at least one data row.
func Parse(text string) []RawRecord {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) < 2 {
		return nil
	}

	headers := splitLine(lines[0])

	records := make([]RawRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cols := splitLine(line)
		rec := make(RawRecord, len(headers))
		for i, h := range headers {
			if i < len(cols) {
				rec[h] = cols[i]
			} else {
				rec[h] = ""
			}
		}
		records = append(records, rec)
	}

	return records
}

// splitLine is a quote-aware comma splitter: a double quote toggles quoted
// state, a doubled quote inside quotes is a literal quote, commas inside
// quotes do not separate fields. It has no failure path; unbalanced quotes
// produce best-effort fields.
func splitLine(line string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				cur.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			out = append(out, cleanField(cur.String()))
			cur.Reset()
		default:
			cur.WriteRune(ch)
		}
	}
	out = append(out, cleanField(cur.String()))

	return out
}

// cleanField trims whitespace and strips at most one pair of wrapping quotes.
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}

// Map resolves each record's columns through the alias tables and drops rows
// without a post id. Rows is capped at MaxRows; Matched reports the uncapped
// count.
func Map(records []RawRecord) Result {
	var res Result

	for _, rec := range records {
		id := pick(rec, postIDAliases)
		if id == "" {
			continue
		}

		res.Matched++
		if len(res.Rows) >= MaxRows {
			continue
		}

		row := model.ParsedPost{
			PlatformPostID: id,
			CreatedTime:    optStr(pick(rec, createdAliases)),
			Date:           optStr(pick(rec, dateAliases)),
			Caption:        optStr(pick(rec, captionAliases)),
			Permalink:      optStr(pick(rec, permalinkAliases)),
			Views:          toNum(pick(rec, viewsAliases)),
			Likes:          toNum(pick(rec, likesAliases)),
			Comments:       toNum(pick(rec, commentsAliases)),
			Shares:         toNum(pick(rec, sharesAliases)),
			Saves:          toNum(pick(rec, savesAliases)),
		}
		res.Rows = append(res.Rows, row)
	}

	return res
}

// ParseAndMap runs the full mapper over raw file text.
func ParseAndMap(text string) Result {
	return Map(Parse(text))
}

func pick(rec RawRecord, aliases []string) string {
	for _, k := range aliases {
		if v, ok := rec[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// toNum cleans thousands separators and parses a counter value. Anything that
// does not parse to a finite number is absent, never zero.
func toNum(s string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return nil
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return nil
	}
	return &n
}
