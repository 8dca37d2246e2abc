package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/newtglobalgit/dmap-saas-request/pkg/models"
)

var (
	ErrTagsBlockNotFound     = errors.New("tags block opening marker not found")
	ErrTagsBlockUnterminated = errors.New("tags block is not closed")
)

var (
	tagsOpenPattern = regexp.MustCompile(`^(\s*)tags\s*=\s*\{`)
	heredocPattern  = regexp.MustCompile(`^<<-?([A-Za-z_][A-Za-z0-9_-]*)\s*$`)
)

type tag struct {
	key   string
	value string
}

func requestTags(req models.ResourceRequest) []tag {
	tags := []tag{
		{"Owner", req.FullName},
		{"Email", req.Email},
		{"Company", req.Company},
		{"Designation", req.Designation},
	}
	if req.Phone != "" {
		tags = append(tags, tag{"Phone", req.Phone})
	}
	return tags
}

// ReplaceTagsBlock rewrites the first `tags = { ... }` block of a tfvars file
// with the requester's details. Every line outside the block is kept
// byte-for-byte and in order.
func ReplaceTagsBlock(content string, req models.ResourceRequest) (string, error) {
	lines := strings.Split(content, "\n")

	start := -1
	var indent string
	var bodyOffset int
	for i, line := range lines {
		if m := tagsOpenPattern.FindStringSubmatchIndex(line); m != nil {
			start = i
			indent = line[m[2]:m[3]]
			bodyOffset = m[1]
			break
		}
	}
	if start < 0 {
		return "", ErrTagsBlockNotFound
	}

	end, closeCol, err := findBlockEnd(lines, start, bodyOffset)
	if err != nil {
		return "", err
	}

	eol := ""
	if strings.HasSuffix(lines[start], "\r") {
		eol = "\r"
	}

	block := make([]string, 0, 7)
	block = append(block, indent+"tags = {"+eol)
	for _, t := range requestTags(req) {
		block = append(block, fmt.Sprintf("%s  %-13s = %s%s", indent, `"`+t.key+`"`, hclQuote(t.value), eol))
	}
	block = append(block, indent+"}"+lines[end][closeCol+1:])

	out := make([]string, 0, len(lines)-(end-start+1)+len(block))
	out = append(out, lines[:start]...)
	out = append(out, block...)
	out = append(out, lines[end+1:]...)

	return strings.Join(out, "\n"), nil
}

// findBlockEnd returns the line and column of the brace closing the block
// opened at lines[start][offset-1]. Braces inside strings, comments and
// heredocs do not count. Block comments and heredocs may span lines.
func findBlockEnd(lines []string, start, offset int) (int, int, error) {
	depth := 1
	inComment := false
	heredoc := ""
	for i := start; i < len(lines); i++ {
		line := lines[i]
		col := 0
		if i == start {
			col = offset
		}

		if heredoc != "" {
			if strings.TrimSpace(line) == heredoc {
				heredoc = ""
			}
			continue
		}

		inString := false
		for ; col < len(line); col++ {
			ch := line[col]
			if inComment {
				if ch == '*' && col+1 < len(line) && line[col+1] == '/' {
					inComment = false
					col++
				}
				continue
			}
			if inString {
				switch ch {
				case '\\':
					col++
				case '"':
					inString = false
				}
				continue
			}

			switch {
			case ch == '"':
				inString = true
			case ch == '#', ch == '/' && col+1 < len(line) && line[col+1] == '/':
				col = len(line)
			case ch == '/' && col+1 < len(line) && line[col+1] == '*':
				inComment = true
				col++
			case ch == '<' && strings.HasPrefix(line[col:], "<<"):
				if m := heredocPattern.FindStringSubmatch(line[col:]); m != nil {
					heredoc = m[1]
					col = len(line)
				}
			case ch == '{':
				depth++
			case ch == '}':
				depth--
				if depth == 0 {
					return i, col, nil
				}
			}
		}
	}
	return 0, 0, ErrTagsBlockUnterminated
}

// hclQuote renders s as an HCL string literal that evaluates back to s.
func hclQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04x`, r)
		case (r == '$' || r == '%') && i+1 < len(s) && s[i+1] == '{':
			b.WriteRune(r)
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
