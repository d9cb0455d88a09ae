package bot

import (
	"strings"

	"readbrief/internal/markdown"
)

// HelpText is the MarkdownV2 reply to /start and /help.
func HelpText(followUpEnabled bool, followUpPrefix string) string {
	var b strings.Builder

	b.WriteString(markdown.Bold("📖 ReadBrief") + "\n\n")
	b.WriteString(markdown.EscapeV2("一款专注于文章内容摘要生成的机器人，帮助你快速获取文章核心内容。") + "\n\n")
	b.WriteString(markdown.EscapeV2("- 发送链接即可获取文章摘要") + "\n")

	if followUpEnabled {
		b.WriteString(markdown.EscapeV2("- 发送"+followUpPrefix+"+问题，可针对文章内容提问") + "\n")
	}

	return b.String()
}
