// Package pipeline 串起 gemroll 的一次完整运行：
// 解析订阅列表 → 逐个抓取 → 提取条目 → 聚合 → 输出。
package pipeline

import (
	"context"
	"io"

	"github.com/tomob/gemroll/internal/feed"
	"github.com/tomob/gemroll/internal/logger"
	"github.com/tomob/gemroll/internal/roll"
	"github.com/tomob/gemroll/internal/subscription"
)

// Fetcher 抓取 capsule 页面内容。
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Run 执行一次聚合。订阅源按列表顺序依次处理，不并发。
// 格式错误的订阅行和抓取失败的源都只记日志并跳过，尽力输出
// 剩余内容；只有读订阅列表或写输出本身出错才返回 error。
func Run(ctx context.Context, fetcher Fetcher, input io.Reader, output io.Writer, opts roll.Options) error {
	subs, warns, err := subscription.Parse(input)
	if err != nil {
		return err
	}
	for _, w := range warns {
		logger.Infof("[pipeline] 跳过订阅行（%s）", w)
	}

	sources := make([]roll.Source, 0, len(subs))
	for _, sub := range subs {
		logger.Infof("[pipeline] 读取 %s", sub.URL)
		content, err := fetcher.Fetch(ctx, sub.URL)
		if err != nil {
			logger.Infof("[pipeline] 抓取 %s 失败，跳过: %v", sub.URL, err)
			continue
		}
		entries := feed.Extract(content, sub)
		logger.Debugf("[pipeline] %s 提取到 %d 条", sub.URL, len(entries))
		sources = append(sources, roll.Source{Sub: sub, Entries: entries})
	}

	return roll.Build(sources, opts).Write(output)
}
