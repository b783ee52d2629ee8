// Package feed 从 capsule 页面内容中提取带日期的订阅条目。
package feed

import (
	"time"

	"github.com/tomob/gemroll/internal/subscription"
)

// Entry 一条订阅条目。Date 为 nil 表示该行没有可解析的日期。
type Entry struct {
	Link   string     // 已补全的绝对链接
	Title  string     // 去掉日期后的说明文字
	Date   *time.Time // 条目日期，可能缺失
	Source *subscription.Subscription
}
