package format

import (
	"html"
	"regexp"
	"strings"
)

const emptyCardContent = "<p>内容处理失败，请重试</p>"

// Sections are the parts of a formatted summary shown on the card.
type Sections struct {
	Summary   string
	KeyPoints []string
	Comment   string
	Tags      string
	ReadTime  string
}

//nolint:gochecknoglobals // Compiled once from the label constants, read-only afterwards.
var (
	summaryRe   = regexp.MustCompile(label(labelSummary) + `[ \t]*(.*?)(?:\n\n|$)`)
	keyPointsRe = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(labelKeyPoints) + `[：:]?\n(.*?)(?:\n(?:` +
		alternatives(labelComment, labelTags, labelReadTime) + `)|$)`)
	commentRe = regexp.MustCompile(`(?s)` + label(labelComment) + `[ \t]*(.*?)(?:\n\n(?:` +
		alternatives(labelTags, labelReadTime) + `)|$)`)
	tagsRe     = regexp.MustCompile(`(?s)` + label(labelTags) + `[ \t]*(.*?)(?:\n\n` + alternatives(labelReadTime) + `|$)`)
	readTimeRe = regexp.MustCompile(label(labelReadTime) + `[ \t]*(.*?)(?:\n|$)`)

	boldRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	keycapRe = regexp.MustCompile(`^\d+\x{FE0F}?\x{20E3}\s*`)
)

// ParseSections recovers the card sections from text produced by Text.
// Sections that cannot be found are left empty.
func ParseSections(text string) Sections {
	var s Sections

	s.Summary = submatch(summaryRe, text)
	s.Comment = submatch(commentRe, text)
	s.Tags = submatch(tagsRe, text)
	s.ReadTime = submatch(readTimeRe, text)

	for _, line := range strings.Split(submatch(keyPointsRe, text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "✨") {
			continue
		}

		line = boldRe.ReplaceAllString(line, "$1")
		line = keycapRe.ReplaceAllString(line, "")

		if line = strings.TrimSpace(line); line != "" {
			s.KeyPoints = append(s.KeyPoints, line)
		}
	}

	return s
}

// CardHTML renders the sections as the HTML fragments of the card body.
func CardHTML(s Sections) string {
	var fragments []string

	if s.Summary != "" {
		fragments = append(fragments,
			`<p><span style="background-color: transparent; color: inherit; font-size: calc(1.1rem);"><b>`+
				labelSummary+`</b></span></p><p><span style="font-size: 14px;">`+html.EscapeString(s.Summary)+`</span></p>`)
	}

	if len(s.KeyPoints) > 0 {
		points := make([]string, 0, len(s.KeyPoints))
		for _, point := range s.KeyPoints {
			points = append(points, html.EscapeString(point))
		}

		fragments = append(fragments,
			`<p><b><span style="font-size: 16px;">`+labelKeyPoints+`</span></b></p><p><span style="font-size: 14px;">`+
				strings.Join(points, "<br>")+`</span></p>`)
	}

	if s.Comment != "" {
		fragments = append(fragments,
			`<p><b><span style="font-size: 16px;">`+labelComment+`</span></b></p><p><span style="font-size: 14px;">`+
				html.EscapeString(s.Comment)+`</span></p>`)
	}

	if s.Tags != "" {
		fragments = append(fragments,
			`<p><b><span style="font-size: 14px;">`+labelTags+`</span></b></p>`+
				`<p><span style="color: rgb(35, 90, 217); font-size: 14px;">`+html.EscapeString(s.Tags)+`</span></p>`)
	}

	if s.ReadTime != "" {
		fragments = append(fragments,
			`<p><span style="color: rgb(217, 118, 2); font-size: 12px;">`+labelReadTime+sep+html.EscapeString(s.ReadTime)+`</span></p>`)
	}

	if len(fragments) == 0 {
		return emptyCardContent
	}

	return strings.Join(fragments, "<p><br></p>")
}

func label(l string) string {
	return regexp.QuoteMeta(l) + `[：:]`
}

func alternatives(labels ...string) string {
	quoted := make([]string, 0, len(labels))
	for _, l := range labels {
		// A section ends where the next label's emoji starts.
		quoted = append(quoted, regexp.QuoteMeta(strings.Fields(l)[0]))
	}

	return strings.Join(quoted, "|")
}

func submatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}

	return strings.TrimSpace(m[1])
}
