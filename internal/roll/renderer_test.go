package roll

import (
	"strings"
	"testing"

	"github.com/tomob/gemroll/internal/feed"
)

func render(t *testing.T, r *Roll) string {
	t.Helper()
	var b strings.Builder
	if err := r.Write(&b); err != nil {
		t.Fatalf("Write 失败: %v", err)
	}
	return b.String()
}

func TestWriteHeaderOnly(t *testing.T) {
	// 空 roll 加页眉：输出只有页眉一行
	r := Build(nil, Options{Mode: ByDate, Header: "My Roll"})
	got := render(t, r)
	if got != "My Roll\n" {
		t.Errorf("期望只有页眉一行，得到 %q", got)
	}
}

func TestWriteEmptyRoll(t *testing.T) {
	r := Build(nil, Options{Mode: ByDate})
	if got := render(t, r); got != "" {
		t.Errorf("空 roll 无页眉页脚时应输出空文档，得到 %q", got)
	}
}

func TestWriteByFeed(t *testing.T) {
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			{Link: "gemini://alice.example/p1.gmi", Title: "五月的文章", Date: day(2024, 5, 1), Source: alice},
		}},
		{Sub: bob, Entries: []feed.Entry{
			{Link: "gemini://bob.example/p1.gmi", Title: "Bob 的文章", Date: day(2024, 4, 2), Source: bob},
		}},
	}
	r := Build(sources, Options{Mode: ByFeed, Header: "# 我的订阅", Footer: "完"})
	got := render(t, r)

	want := `# 我的订阅

## Alice's Blog
=> gemini://alice.example/p1.gmi 五月的文章

## Bob's Log
=> gemini://bob.example/p1.gmi Bob 的文章

完
`
	if got != want {
		t.Errorf("ByFeed 输出不匹配:\n得到:\n%s\n期望:\n%s", got, want)
	}
}

func TestWriteByDateFlat(t *testing.T) {
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			{Link: "gemini://alice.example/p1.gmi", Title: "文章一", Date: day(2024, 5, 1), Source: alice},
			{Link: "gemini://alice.example/p2.gmi", Title: "文章二", Date: day(2024, 4, 1), Source: alice},
		}},
	}
	r := Build(sources, Options{Mode: ByDate})
	got := render(t, r)

	want := `=> gemini://alice.example/p1.gmi 文章一
=> gemini://alice.example/p2.gmi 文章二
`
	if got != want {
		t.Errorf("ByDate 应平铺输出、无分组标题:\n得到:\n%s", got)
	}
}

func TestWriteByDayMarksSource(t *testing.T) {
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			{Link: "gemini://alice.example/p1.gmi", Title: "文章", Date: day(2024, 5, 1), Source: alice},
		}},
	}
	r := Build(sources, Options{Mode: ByDay})
	got := render(t, r)

	want := `## 2024-05-01
=> gemini://alice.example/p1.gmi 文章 [Alice's Blog]
`
	if got != want {
		t.Errorf("ByDay 输出不匹配:\n得到:\n%s\n期望:\n%s", got, want)
	}
}

func TestWriteExpandsEscapes(t *testing.T) {
	r := Build(nil, Options{Mode: ByDate, Header: `第一行\n第二行`})
	got := render(t, r)
	if got != "第一行\n第二行\n" {
		t.Errorf("页眉的 \\n 转义应展开为换行，得到 %q", got)
	}
}

func TestWriteEntryWithoutTitle(t *testing.T) {
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			{Link: "gemini://alice.example/p.gmi", Date: day(2024, 5, 1), Source: alice},
		}},
	}
	r := Build(sources, Options{Mode: ByDate})
	got := render(t, r)
	if got != "=> gemini://alice.example/p.gmi\n" {
		t.Errorf("无标题条目不应有尾随空格，得到 %q", got)
	}
}
