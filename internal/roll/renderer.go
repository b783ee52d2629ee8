package roll

import (
	"fmt"
	"io"
	"strings"

	"github.com/tomob/gemroll/internal/feed"
)

// Write 把聚合结果写成 gemtext 文档：页眉、正文、页脚之间以空行分隔，
// 分组之间也以空行分隔。这里只做序列化，不再校验数据。
func (r *Roll) Write(w io.Writer) error {
	var parts []string
	if h := expandEscapes(r.opts.Header); h != "" {
		parts = append(parts, h)
	}
	if body := r.body(); body != "" {
		parts = append(parts, body)
	}
	if f := expandEscapes(r.opts.Footer); f != "" {
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(parts, "\n\n")+"\n")
	return err
}

func (r *Roll) body() string {
	var sections []string
	for _, g := range r.Groups {
		var b strings.Builder
		if g.Heading != "" {
			fmt.Fprintf(&b, "## %s\n", g.Heading)
		}
		for _, e := range g.Entries {
			b.WriteString(r.entryLine(e))
			b.WriteByte('\n')
		}
		if section := strings.TrimRight(b.String(), "\n"); section != "" {
			sections = append(sections, section)
		}
	}
	return strings.Join(sections, "\n\n")
}

// entryLine 输出一行 gemtext 链接。ByDay 模式附带来源标注。
func (r *Roll) entryLine(e feed.Entry) string {
	line := "=> " + e.Link
	if e.Title != "" {
		line += " " + e.Title
	}
	if r.opts.Mode == ByDay {
		line += fmt.Sprintf(" [%s]", e.Source.Label)
	}
	return line
}

// expandEscapes 页眉页脚中的 \n 转义展开为换行。
func expandEscapes(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
