package format_test

import (
	"readbrief/internal/domain"
	"readbrief/internal/format"
	"slices"
	"strings"
	"testing"
)

var fullSummary = domain.Summary{
	Title:     "Go 1.24 发布",
	Summary:   "Go 1.24 带来泛型类型别名与更快的 map。",
	KeyPoints: []string{"泛型类型别名正式可用", "**Swiss tables** 成为 map 的默认实现", "新增 os.Root 目录隔离访问"},
	Comment:   "稳中有进，值得升级。",
	Tags:      "#Go #编程语言 #发布",
	ReadTime:  "5分钟",
	Source:    "Go 官方博客",
}

func TestText(t *testing.T) {
	got := format.Text(fullSummary, domain.Page{Title: "page title", Source: "page source"})

	want := "📖 标题洞察：Go 1.24 发布\n\n" +
		"📌 一句话总结：Go 1.24 带来泛型类型别名与更快的 map。\n\n" +
		"✨ 核心要点：\n" +
		"1️⃣ 泛型类型别名正式可用\n" +
		"2️⃣ **Swiss tables** 成为 map 的默认实现\n" +
		"3️⃣ 新增 os.Root 目录隔离访问\n" +
		"\n" +
		"🤖 AI辣评：稳中有进，值得升级。\n\n" +
		"🏷️ 智能标签：#Go #编程语言 #发布\n\n" +
		"⏱️ 预计阅读：5分钟\n\n" +
		"📰 文章来源：Go 官方博客"

	if got != want {
		t.Fatalf("unexpected text:\n%s\nwant:\n%s", got, want)
	}
}

func TestTextPlaceholders(t *testing.T) {
	got := format.Text(domain.Summary{}, domain.Page{})

	for _, want := range []string{
		"📖 标题洞察：未知标题",
		"📌 一句话总结：无摘要",
		"🤖 AI辣评：无评论",
		"🏷️ 智能标签：\n\n",
		"⏱️ 预计阅读：未知",
		"📰 文章来源：未知来源",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestTextFallsBackToPageMetadata(t *testing.T) {
	got := format.Text(domain.Summary{}, domain.Page{Title: "Page Title", Source: "Site"})

	if !strings.Contains(got, "📖 标题洞察：Page Title") || !strings.Contains(got, "📰 文章来源：Site") {
		t.Fatalf("expected page metadata in:\n%s", got)
	}
}

func TestTextEmptyKeyPoints(t *testing.T) {
	got := format.Text(domain.Summary{Summary: "s"}, domain.Page{})

	if !strings.Contains(got, "✨ 核心要点：\n\n🤖 AI辣评") {
		t.Fatalf("expected empty key points section in:\n%s", got)
	}

	if strings.Contains(got, "⃣") {
		t.Fatalf("expected no keycap markers in:\n%s", got)
	}

	if sections := format.ParseSections(got); len(sections.KeyPoints) != 0 {
		t.Fatalf("expected no parsed key points, got %q", sections.KeyPoints)
	}
}

func TestParseSectionsRoundTrip(t *testing.T) {
	text := format.Text(fullSummary, domain.Page{})
	got := format.ParseSections(text)

	if got.Summary != fullSummary.Summary {
		t.Errorf("summary mismatch: %q", got.Summary)
	}

	if got.Comment != fullSummary.Comment {
		t.Errorf("comment mismatch: %q", got.Comment)
	}

	if got.Tags != fullSummary.Tags {
		t.Errorf("tags mismatch: %q", got.Tags)
	}

	if got.ReadTime != fullSummary.ReadTime {
		t.Errorf("read time mismatch: %q", got.ReadTime)
	}

	wantPoints := []string{"泛型类型别名正式可用", "Swiss tables 成为 map 的默认实现", "新增 os.Root 目录隔离访问"}
	if !slices.Equal(got.KeyPoints, wantPoints) {
		t.Errorf("key points mismatch: %q", got.KeyPoints)
	}
}

func TestParseSectionsEmptyTags(t *testing.T) {
	s := fullSummary
	s.Tags = ""

	got := format.ParseSections(format.Text(s, domain.Page{}))

	if got.Tags != "" {
		t.Fatalf("expected empty tags, got %q", got.Tags)
	}

	if got.ReadTime != "5分钟" {
		t.Fatalf("unexpected read time: %q", got.ReadTime)
	}
}

func TestParseSectionsManyKeyPoints(t *testing.T) {
	s := fullSummary
	s.KeyPoints = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}

	got := format.ParseSections(format.Text(s, domain.Page{}))

	if !slices.Equal(got.KeyPoints, s.KeyPoints) {
		t.Fatalf("key points mismatch: %q", got.KeyPoints)
	}
}

func TestParseSectionsForeignText(t *testing.T) {
	got := format.ParseSections("just some text")

	if got.Summary != "" || got.Comment != "" || got.Tags != "" || got.ReadTime != "" || len(got.KeyPoints) != 0 {
		t.Fatalf("expected empty sections, got %+v", got)
	}

	if html := format.CardHTML(got); html != "<p>内容处理失败，请重试</p>" {
		t.Fatalf("unexpected empty card HTML: %q", html)
	}
}

func TestCardHTML(t *testing.T) {
	html := format.CardHTML(format.Sections{
		Summary:   "一句话",
		KeyPoints: []string{"one", "two"},
		Comment:   "comment <script>alert(1)</script>",
		Tags:      "#a #b",
		ReadTime:  "3分钟",
	})

	for _, want := range []string{
		"<b>📌 一句话总结</b>",
		`<span style="font-size: 14px;">一句话</span>`,
		"one<br>two",
		`<span style="color: rgb(35, 90, 217); font-size: 14px;">#a #b</span>`,
		"⏱️ 预计阅读：3分钟",
		"<p><br></p>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in %s", want, html)
		}
	}

	if strings.Contains(html, "<script>") || !strings.Contains(html, "comment &lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("expected markup from model output to be escaped: %s", html)
	}

	if got := strings.Count(html, "<p><br></p>"); got != 4 {
		t.Fatalf("expected 4 section separators, got %d", got)
	}
}

func TestCardHTMLEscapesText(t *testing.T) {
	text := format.Text(domain.Summary{
		Summary:   "用 <table> 和 <div> 布局的旧网页",
		KeyPoints: []string{"Vec<String> 的用法", "A & B"},
	}, domain.Page{})

	html := format.CardHTML(format.ParseSections(text))

	for _, want := range []string{
		"用 &lt;table&gt; 和 &lt;div&gt; 布局的旧网页",
		"Vec&lt;String&gt; 的用法",
		"A &amp; B",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in %s", want, html)
		}
	}

	if strings.Contains(html, "<table>") || strings.Contains(html, "<String>") {
		t.Fatalf("expected raw text to be escaped: %s", html)
	}
}

func TestWithFollowUpHint(t *testing.T) {
	got := format.WithFollowUpHint("just some text", true, "问")
	if got != "just some text\n\n💬5分钟内输入问+问题，可继续追问" {
		t.Fatalf("unexpected text: %q", got)
	}

	if got = format.WithFollowUpHint("just some text", false, "问"); got != "just some text" {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}
