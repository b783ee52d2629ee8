package feed

import (
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/ncruces/go-strftime"

	"github.com/tomob/gemroll/internal/logger"
	"github.com/tomob/gemroll/internal/subscription"
)

// Extract 一次遍历页面内容，按文档顺序产出条目。
// gemtext 页面扫描 `=> <链接> <说明文字>` 行；有些 capsule 直接发布
// Atom/RSS 文档，这类内容交给 gofeed 解析。
func Extract(content string, sub *subscription.Subscription) []Entry {
	if looksLikeXMLFeed(content) {
		return extractXML(content, sub)
	}
	return extractGemtext(content, sub)
}

func looksLikeXMLFeed(content string) bool {
	head := strings.TrimLeft(content, " \t\r\n")
	return strings.HasPrefix(head, "<?xml") ||
		strings.HasPrefix(head, "<feed") ||
		strings.HasPrefix(head, "<rss")
}

func extractGemtext(content string, sub *subscription.Subscription) []Entry {
	var entries []Entry
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "=>") {
			continue
		}
		parts := strings.Fields(line[2:])
		if len(parts) < 2 {
			// 没有说明文字的裸链接，不是订阅条目
			continue
		}
		date, title := splitDate(parts[1:], sub.DateFormat)
		entries = append(entries, Entry{
			Link:   resolveLink(sub.URL, parts[0]),
			Title:  title,
			Date:   date,
			Source: sub,
		})
	}
	return entries
}

// splitDate 在说明文字的 token 中找第一个能按 format 解析的日期，
// 其余 token 拼回标题。找不到则日期为 nil，整段文字作为标题。
func splitDate(tokens []string, format string) (*time.Time, string) {
	for i, tok := range tokens {
		t, err := strftime.Parse(format, tok)
		if err != nil {
			continue
		}
		rest := make([]string, 0, len(tokens)-1)
		rest = append(rest, tokens[:i]...)
		rest = append(rest, tokens[i+1:]...)
		return &t, strings.Join(rest, " ")
	}
	return nil, strings.Join(tokens, " ")
}

// extractXML 解析以 Atom/RSS 形式发布的 capsule 索引。
// 日期来自 feed 本身，订阅配置的日期格式不参与。
func extractXML(content string, sub *subscription.Subscription) []Entry {
	parsed, err := gofeed.NewParser().ParseString(content)
	if err != nil {
		logger.Warnf("[feed] 解析 %s 的 XML feed 失败: %v", sub.URL, err)
		return nil
	}
	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		date := item.PublishedParsed
		if date == nil {
			date = item.UpdatedParsed
		}
		entries = append(entries, Entry{
			Link:   resolveLink(sub.URL, item.Link),
			Title:  item.Title,
			Date:   date,
			Source: sub,
		})
	}
	return entries
}

// resolveLink 把相对链接相对 capsule 地址补全为绝对链接。
func resolveLink(baseURL, link string) string {
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	if ref.IsAbs() {
		return link
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
