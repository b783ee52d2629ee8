package subscription

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Warning 记录一条被跳过的订阅行及其原因。
type Warning struct {
	Line   int
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("第 %d 行: %s", w.Line, w.Reason)
}

// Parse 逐行解析订阅列表，返回文件顺序的订阅序列。
// 格式错误的行记入警告并跳过，不中断解析；空输入返回空序列。
// 只有读流本身出错才返回 error。
func Parse(r io.Reader) ([]*Subscription, []Warning, error) {
	var subs []*Subscription
	var warns []Warning

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sub, err := parseLine(line)
		if err != nil {
			warns = append(warns, Warning{Line: lineNo, Reason: err.Error()})
			continue
		}
		subs = append(subs, sub)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("读取订阅列表失败: %w", err)
	}
	return subs, warns, nil
}

// parseLine 解析形如 `=> gemini://host "描述" [日期格式]` 的一行。
func parseLine(line string) (*Subscription, error) {
	rest, ok := strings.CutPrefix(line, "=>")
	if !ok {
		return nil, fmt.Errorf("缺少 => 前缀")
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil, fmt.Errorf("缺少 URL")
	}

	// 第一个空白分隔的 token 是 URL
	rawURL := rest
	if i := strings.IndexAny(rest, " \t"); i >= 0 {
		rawURL = rest[:i]
		rest = strings.TrimSpace(rest[i:])
	} else {
		rest = ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("无效的 URL: %s", rawURL)
	}
	if u.Scheme != "gemini" {
		return nil, fmt.Errorf("仅支持 gemini:// 地址: %s", rawURL)
	}

	if !strings.HasPrefix(rest, `"`) {
		return nil, fmt.Errorf("描述必须用双引号括起")
	}
	end := strings.Index(rest[1:], `"`)
	if end < 0 {
		return nil, fmt.Errorf("描述缺少结束引号")
	}
	label := rest[1 : 1+end]

	format := strings.TrimSpace(rest[2+end:])
	if format == "" {
		format = DefaultDateFormat
	}

	return &Subscription{URL: rawURL, Label: label, DateFormat: format}, nil
}
