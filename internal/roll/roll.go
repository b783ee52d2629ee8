// Package roll 把各订阅源的条目聚合成最终输出的 roll。
package roll

import (
	"sort"

	"github.com/tomob/gemroll/internal/feed"
	"github.com/tomob/gemroll/internal/subscription"
)

// Mode 输出模式。
type Mode int

const (
	// ByDate 所有条目合并后按日期倒序平铺。
	ByDate Mode = iota
	// ByFeed 按订阅源分组，保持订阅列表中的顺序。
	ByFeed
	// ByDay 按日历日分组，同一天内保持输入顺序。
	ByDay
)

const defaultLimit = 5

// 无日期条目在 ByDay 模式下归入的分组标题。
const undatedHeading = "undated"

// Options 聚合与输出选项，构造后不再修改。
type Options struct {
	Mode   Mode
	Limit  int    // 每个订阅源保留的条目数，<=0 时取默认值 5
	Header string // 可选页眉，支持 \n 转义
	Footer string // 可选页脚，支持 \n 转义
}

// Source 一个订阅源及其按文档顺序提取出的条目（文档约定最新在前）。
type Source struct {
	Sub     *subscription.Subscription
	Entries []feed.Entry
}

// Group 输出中的一个分组。ByDate 模式只有一个无标题分组。
type Group struct {
	Heading string
	Entries []feed.Entry
}

// Roll 聚合结果，由 Build 构造一次，之后只读。
type Roll struct {
	Groups []Group
	opts   Options
}

// Build 按选项聚合条目。每个源只保留文档顺序中最前面的 Limit 条，
// 源内不重新排序。
func Build(sources []Source, opts Options) *Roll {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	r := &Roll{opts: opts}

	switch opts.Mode {
	case ByFeed:
		for _, src := range sources {
			r.Groups = append(r.Groups, Group{
				Heading: src.Sub.Label,
				Entries: truncate(src.Entries, opts.Limit),
			})
		}
	case ByDay:
		r.Groups = groupByDay(merge(sources, opts.Limit))
	default:
		r.Groups = []Group{{Entries: merge(sources, opts.Limit)}}
	}
	return r
}

func truncate(entries []feed.Entry, n int) []feed.Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

// merge 每个源截断后合并，按日期稳定倒序。
// 无日期的条目排在所有带日期的条目之后，日期相同保持输入顺序。
func merge(sources []Source, n int) []feed.Entry {
	var all []feed.Entry
	for _, src := range sources {
		all = append(all, truncate(src.Entries, n)...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Date, all[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return all
}

// groupByDay 把已排好序的条目按日历日切分，无日期的条目落到末尾一组。
func groupByDay(entries []feed.Entry) []Group {
	var groups []Group
	for _, e := range entries {
		heading := undatedHeading
		if e.Date != nil {
			heading = e.Date.Format("2006-01-02")
		}
		if len(groups) == 0 || groups[len(groups)-1].Heading != heading {
			groups = append(groups, Group{Heading: heading})
		}
		last := &groups[len(groups)-1]
		last.Entries = append(last.Entries, e)
	}
	return groups
}
