// Package subscription 解析 Gemini capsule 订阅列表。
package subscription

import "fmt"

// DefaultDateFormat 未指定日期格式时使用的 strptime 格式。
const DefaultDateFormat = "%Y-%m-%d"

// Subscription 一个订阅的 capsule 描述，由订阅列表中的一行解析而来。
// 构造后不再修改。
type Subscription struct {
	URL        string // capsule 首页的 gemini:// 地址
	Label      string // 引号内的描述文字
	DateFormat string // 该 capsule 条目使用的 strptime 风格日期格式
}

// Line 还原订阅行的 URL 与描述部分。
func (s *Subscription) Line() string {
	return fmt.Sprintf("=> %s %q", s.URL, s.Label)
}
