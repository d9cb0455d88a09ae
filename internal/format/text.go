// Package format renders structured summaries as chat text and as the HTML
// fragments used by the card renderer.
//
// The card fragments are re-parsed from the chat text, so the text is the
// single artifact both replies are derived from. Labels are shared between
// the writer and the parser below; change them in one place only.
package format

import (
	"strconv"
	"strings"

	"readbrief/internal/domain"
)

const (
	labelTitle     = "📖 标题洞察"
	labelSummary   = "📌 一句话总结"
	labelKeyPoints = "✨ 核心要点"
	labelComment   = "🤖 AI辣评"
	labelTags      = "🏷️ 智能标签"
	labelReadTime  = "⏱️ 预计阅读"
	labelSource    = "📰 文章来源"

	sep = "："

	placeholderTitle    = "未知标题"
	placeholderSummary  = "无摘要"
	placeholderComment  = "无评论"
	placeholderReadTime = "未知"
	placeholderSource   = "未知来源"
)

// Text renders the summary as the decorated chat reply. Missing values fall
// back to the page metadata and then to fixed placeholders.
func Text(s domain.Summary, page domain.Page) string {
	title := firstNonEmpty(s.Title, page.Title, placeholderTitle)
	source := firstNonEmpty(s.Source, page.Source, placeholderSource)

	var b strings.Builder

	b.WriteString(labelTitle + sep + title + "\n\n")
	b.WriteString(labelSummary + sep + oneLine(firstNonEmpty(s.Summary, placeholderSummary)) + "\n\n")
	b.WriteString(labelKeyPoints + sep + "\n")
	for i, point := range s.KeyPoints {
		b.WriteString(keycap(i) + " " + oneLine(point) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(labelComment + sep + firstNonEmpty(s.Comment, placeholderComment) + "\n\n")
	b.WriteString(labelTags + sep + s.Tags + "\n\n")
	b.WriteString(labelReadTime + sep + oneLine(firstNonEmpty(s.ReadTime, placeholderReadTime)) + "\n\n")
	b.WriteString(labelSource + sep + source)

	return b.String()
}

// WithFollowUpHint appends the follow-up invitation when follow-ups are on.
func WithFollowUpHint(text string, enabled bool, prefix string) string {
	if !enabled {
		return text
	}

	return text + "\n\n💬5分钟内输入" + prefix + "+问题，可继续追问"
}

// keycap numbers the i-th key point as a keycap emoji ("1️⃣", "2️⃣", ...).
func keycap(i int) string {
	return strconv.Itoa(i+1) + "\uFE0F\u20E3"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}

// oneLine folds line breaks so that single-line sections stay parseable.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
