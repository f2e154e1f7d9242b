package heuristic

import (
	"bytes"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// stripMarkdown reduces markdown content to its plain text so heading markers,
// emphasis, links and code fences do not leak into generated titles. Code
// block contents are dropped entirely. Falls back to the raw content when
// nothing textual survives.
func stripMarkdown(content string) string {
	source := []byte(content)
	root := markdown.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		default:
			if n.Type() == ast.TypeBlock && buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
				buf.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		slog.Debug("heuristic: markdown walk failed, using raw content", "error", err)
		return content
	}

	plain := buf.String()
	if len(bytes.TrimSpace([]byte(plain))) == 0 {
		return content
	}
	return plain
}
