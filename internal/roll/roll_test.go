package roll

import (
	"testing"
	"time"

	"github.com/tomob/gemroll/internal/feed"
	"github.com/tomob/gemroll/internal/subscription"
)

var (
	alice = &subscription.Subscription{URL: "gemini://alice.example", Label: "Alice's Blog"}
	bob   = &subscription.Subscription{URL: "gemini://bob.example", Label: "Bob's Log"}
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func entry(sub *subscription.Subscription, link string, date *time.Time) feed.Entry {
	return feed.Entry{Link: link, Title: link, Date: date, Source: sub}
}

func TestBuildByDate(t *testing.T) {
	// Bob 的 01/05/2024 与 Alice 的 2024-05-01 同一天，
	// 稳定排序应保持输入顺序：Alice 在前
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			entry(alice, "a-may", day(2024, 5, 1)),
			entry(alice, "a-apr", day(2024, 4, 1)),
		}},
		{Sub: bob, Entries: []feed.Entry{
			entry(bob, "b-may", day(2024, 5, 1)),
			entry(bob, "b-apr", day(2024, 4, 2)),
		}},
	}

	r := Build(sources, Options{Mode: ByDate, Limit: 2})
	if len(r.Groups) != 1 {
		t.Fatalf("ByDate 应只有一个分组，得到 %d 个", len(r.Groups))
	}
	got := r.Groups[0].Entries
	want := []string{"a-may", "b-may", "b-apr", "a-apr"}
	if len(got) != len(want) {
		t.Fatalf("期望 %d 条，得到 %d 条", len(want), len(got))
	}
	for i, link := range want {
		if got[i].Link != link {
			t.Errorf("第 %d 条应是 %s，得到 %s", i, link, got[i].Link)
		}
	}
}

func TestBuildByDateUndatedLast(t *testing.T) {
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			entry(alice, "undated-1", nil),
			entry(alice, "dated-old", day(2020, 1, 1)),
		}},
		{Sub: bob, Entries: []feed.Entry{
			entry(bob, "undated-2", nil),
		}},
	}

	r := Build(sources, Options{Mode: ByDate})
	got := r.Groups[0].Entries
	if got[0].Link != "dated-old" {
		t.Errorf("有日期的条目应排在最前: %s", got[0].Link)
	}
	// 无日期条目之间保持输入顺序
	if got[1].Link != "undated-1" || got[2].Link != "undated-2" {
		t.Errorf("无日期条目顺序错误: %s, %s", got[1].Link, got[2].Link)
	}
}

func TestBuildTruncation(t *testing.T) {
	many := []feed.Entry{
		entry(alice, "e1", day(2024, 1, 5)),
		entry(alice, "e2", day(2024, 1, 4)),
		entry(alice, "e3", day(2024, 1, 3)),
	}
	few := []feed.Entry{
		entry(bob, "f1", day(2024, 1, 2)),
	}
	sources := []Source{{Sub: alice, Entries: many}, {Sub: bob, Entries: few}}

	r := Build(sources, Options{Mode: ByFeed, Limit: 2})
	if n := len(r.Groups[0].Entries); n != 2 {
		t.Errorf("超限的源应截断到 2 条，得到 %d 条", n)
	}
	if r.Groups[0].Entries[0].Link != "e1" || r.Groups[0].Entries[1].Link != "e2" {
		t.Error("截断应保留文档顺序最前面的条目")
	}
	if n := len(r.Groups[1].Entries); n != 1 {
		t.Errorf("不足限额的源应原样保留，得到 %d 条", n)
	}
}

func TestBuildByFeedKeepsInputOrder(t *testing.T) {
	// Bob 的条目更新，但 ByFeed 模式只看订阅列表顺序
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{entry(alice, "a", day(2020, 1, 1))}},
		{Sub: bob, Entries: []feed.Entry{entry(bob, "b", day(2024, 1, 1))}},
	}

	r := Build(sources, Options{Mode: ByFeed})
	if len(r.Groups) != 2 {
		t.Fatalf("期望 2 个分组，得到 %d 个", len(r.Groups))
	}
	if r.Groups[0].Heading != "Alice's Blog" || r.Groups[1].Heading != "Bob's Log" {
		t.Errorf("分组顺序应与订阅列表一致: %s, %s", r.Groups[0].Heading, r.Groups[1].Heading)
	}
}

func TestBuildByFeedNoResort(t *testing.T) {
	// 文档顺序乱序时也不重排，截断取最前面的 N 条
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			entry(alice, "old-first", day(2020, 1, 1)),
			entry(alice, "new-second", day(2024, 1, 1)),
		}},
	}
	r := Build(sources, Options{Mode: ByFeed, Limit: 1})
	if r.Groups[0].Entries[0].Link != "old-first" {
		t.Errorf("源内不应重新排序: %s", r.Groups[0].Entries[0].Link)
	}
}

func TestBuildByDay(t *testing.T) {
	sources := []Source{
		{Sub: alice, Entries: []feed.Entry{
			entry(alice, "a-may", day(2024, 5, 1)),
			entry(alice, "a-undated", nil),
		}},
		{Sub: bob, Entries: []feed.Entry{
			entry(bob, "b-may", day(2024, 5, 1)),
			entry(bob, "b-apr", day(2024, 4, 2)),
		}},
	}

	r := Build(sources, Options{Mode: ByDay, Limit: 5})
	headings := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		headings[i] = g.Heading
	}
	want := []string{"2024-05-01", "2024-04-02", "undated"}
	if len(headings) != len(want) {
		t.Fatalf("期望分组 %v，得到 %v", want, headings)
	}
	for i := range want {
		if headings[i] != want[i] {
			t.Errorf("分组 %d 应是 %s，得到 %s", i, want[i], headings[i])
		}
	}
	if len(r.Groups[0].Entries) != 2 {
		t.Errorf("同一天的条目应在同一组，得到 %d 条", len(r.Groups[0].Entries))
	}
	if r.Groups[0].Entries[0].Link != "a-may" {
		t.Errorf("同一天内应保持输入顺序: %s", r.Groups[0].Entries[0].Link)
	}
}

func TestBuildDefaultLimit(t *testing.T) {
	var entries []feed.Entry
	for i := 0; i < 8; i++ {
		entries = append(entries, entry(alice, "e", day(2024, 1, 8-i)))
	}
	r := Build([]Source{{Sub: alice, Entries: entries}}, Options{Mode: ByDate})
	if n := len(r.Groups[0].Entries); n != 5 {
		t.Errorf("未指定限额时默认 5 条，得到 %d 条", n)
	}
}

func TestBuildEmpty(t *testing.T) {
	r := Build(nil, Options{Mode: ByFeed})
	if len(r.Groups) != 0 {
		t.Errorf("无订阅源时不应有分组，得到 %d 个", len(r.Groups))
	}
}
