package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// ErrUnsupported marks file types that are stored but not parsed.
var ErrUnsupported = fmt.Errorf("unsupported file format")

// Supported reports whether Text can parse files with this name.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md", ".markdown", ".pdf":
		return true
	}
	return false
}

// Text extracts plain text from an uploaded file. The reader must be
// positioned at the start; PDF parsing additionally requires it to
// implement io.ReaderAt.
func Text(filename string, r io.ReadSeeker, size int64) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read text file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	case ".md", ".markdown":
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read markdown file: %w", err)
		}
		return markdownText(data), nil
	case ".pdf":
		return pdfText(r, size)
	default:
		return "", ErrUnsupported
	}
}

// markdownText renders a markdown document down to its prose, one block
// per paragraph, so the paragraph splitter downstream sees real
// boundaries instead of markup.
func markdownText(data []byte) string {
	md := goldmark.New()
	reader := gmtext.NewReader(data)
	doc := md.Parser().Parse(reader)

	blocks := make([]string, 0)
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		if txt := nodeText(node, data); txt != "" {
			blocks = append(blocks, txt)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node.Kind() {
		case ast.KindText:
			sb.Write(node.(*ast.Text).Segment.Value(source))
			if node.(*ast.Text).SoftLineBreak() || node.(*ast.Text).HardLineBreak() {
				sb.WriteByte(' ')
			}
		case ast.KindCodeBlock, ast.KindFencedCodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				sb.Write(line.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

func pdfText(r io.ReadSeeker, size int64) (string, error) {
	ra, ok := r.(io.ReaderAt)
	if !ok {
		return "", fmt.Errorf("pdf extraction needs random access")
	}
	reader, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	data, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
