// Package gemini 实现最小的 Gemini 协议客户端。
//
// 协议很简单：TLS 连接默认端口 1965，请求是绝对 URL 加 CRLF，
// 响应第一行是 `<状态码> <meta>`，2x 状态后面跟正文。
package gemini

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

const (
	defaultPort         = "1965"
	defaultTimeout      = 10 * time.Second
	defaultMaxRedirects = 5

	// 响应头最长 1024 字节的 meta 加状态码和空格
	maxHeaderLen = 1024 + 3
)

var (
	// ErrNotSuccess 服务器返回了非 2x、非 3x 的状态。
	ErrNotSuccess = errors.New("非成功状态")
	// ErrTooManyRedirects 重定向次数超过上限。
	ErrTooManyRedirects = errors.New("重定向次数过多")
)

// Client Gemini 协议客户端。一次抓取一个页面，无缓存无重试。
type Client struct {
	timeout      time.Duration
	maxRedirects int
}

// NewClient 创建客户端。timeout 和 maxRedirects 不合法时使用默认值。
func NewClient(timeout time.Duration, maxRedirects int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxRedirects <= 0 {
		maxRedirects = defaultMaxRedirects
	}
	return &Client{timeout: timeout, maxRedirects: maxRedirects}
}

// Fetch 获取页面正文。3x 状态自动跟随重定向（meta 可以是相对地址）。
func (c *Client) Fetch(ctx context.Context, rawURL string) (string, error) {
	target := rawURL
	for i := 0; i <= c.maxRedirects; i++ {
		body, redirect, err := c.request(ctx, target)
		if err != nil {
			return "", err
		}
		if redirect == "" {
			return body, nil
		}
		next, err := resolveRedirect(target, redirect)
		if err != nil {
			return "", err
		}
		target = next
	}
	return "", fmt.Errorf("%w: %s", ErrTooManyRedirects, rawURL)
}

// request 执行一次请求。redirect 非空表示收到了 3x 状态。
func (c *Client) request(ctx context.Context, rawURL string) (body, redirect string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("无效的 URL %s: %w", rawURL, err)
	}
	if u.Scheme != "gemini" {
		return "", "", fmt.Errorf("不支持的协议: %s", u.Scheme)
	}

	// 主机名可能是国际化域名，转成 punycode 再拨号
	host, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return "", "", fmt.Errorf("无效的主机名 %s: %w", u.Hostname(), err)
	}
	port := u.Port()
	if port == "" {
		port = defaultPort
	}

	dialer := &net.Dialer{Timeout: c.timeout}
	rawConn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return "", "", fmt.Errorf("连接 %s 失败: %w", u.Host, err)
	}
	conn := tls.Client(rawConn, &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		// Gemini 采用 TOFU，证书通常是自签名的，不走 CA 体系
		InsecureSkipVerify: true,
	})
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if _, err := fmt.Fprintf(conn, "%s\r\n", u.String()); err != nil {
		return "", "", fmt.Errorf("发送请求失败: %w", err)
	}

	reader := bufio.NewReader(conn)
	header, err := reader.ReadString('\n')
	if err != nil {
		return "", "", fmt.Errorf("读取响应头失败: %w", err)
	}
	status, meta, err := parseHeader(header)
	if err != nil {
		return "", "", err
	}

	switch {
	case status >= 20 && status < 30:
		data, err := io.ReadAll(reader)
		if err != nil {
			return "", "", fmt.Errorf("读取正文失败: %w", err)
		}
		return string(data), "", nil
	case status >= 30 && status < 40:
		if meta == "" {
			return "", "", fmt.Errorf("重定向缺少目标地址: %d", status)
		}
		return "", meta, nil
	default:
		return "", "", fmt.Errorf("%w: %d %s", ErrNotSuccess, status, meta)
	}
}

// parseHeader 解析 `<状态码> <meta>` 响应头。
func parseHeader(line string) (int, string, error) {
	line = strings.TrimRight(line, "\r\n")
	if len(line) > maxHeaderLen {
		return 0, "", fmt.Errorf("响应头过长: %d 字节", len(line))
	}
	code, meta, _ := strings.Cut(line, " ")
	status, err := strconv.Atoi(code)
	if err != nil || status < 10 || status > 69 {
		return 0, "", fmt.Errorf("无效的响应头: %q", line)
	}
	return status, meta, nil
}

// resolveRedirect 把重定向目标相对当前请求的 URL 解析成绝对地址。
func resolveRedirect(base, target string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("无效的 URL %s: %w", base, err)
	}
	t, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("无效的重定向目标 %s: %w", target, err)
	}
	return b.ResolveReference(t).String(), nil
}
