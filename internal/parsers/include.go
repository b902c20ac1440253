package parsers

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/ethanolivertroy/incgraph/internal/models"
)

// Version identifies the scanner output format. Bump it whenever Parse
// changes so cached scan results are invalidated.
const Version = "include/1"

// SourceExtensions are compiled translation units
var SourceExtensions = map[string]bool{
	".c": true, ".cc": true, ".cpp": true, ".cxx": true, ".S": true,
}

// HeaderExtensions are included, never compiled directly
var HeaderExtensions = map[string]bool{
	".h": true, ".hh": true, ".hpp": true, ".hxx": true, ".inc": true,
}

// IsSource reports whether path is a compilable source
func IsSource(path string) bool {
	return SourceExtensions[filepath.Ext(path)]
}

// IsHeader reports whether path is a header
func IsHeader(path string) bool {
	return HeaderExtensions[filepath.Ext(path)]
}

// IncludeParser recognises the preprocessor inclusion directives
// `#include` and `#include_next` and nothing else of the host language.
type IncludeParser struct{}

// CanParse returns true for C, C++ and assembly sources and headers
func (p *IncludeParser) CanParse(filename string) bool {
	return IsSource(filename) || IsHeader(filename)
}

// Parse extracts inclusion references from content
func (p *IncludeParser) Parse(path string, content []byte) ([]models.DependencyReference, []models.MalformedReferenceWarning) {
	var (
		refs     []models.DependencyReference
		warnings []models.MalformedReferenceWarning
		seen     = make(map[string]bool)
	)

	for _, ln := range logicalLines(stripComments(content)) {
		text := strings.TrimLeft(ln.text, " \t")
		if !strings.HasPrefix(text, "#") {
			continue
		}
		directive := strings.TrimLeft(text[1:], " \t")
		name, arg := splitDirective(directive)
		if name != "include" && name != "include_next" {
			continue
		}

		warn := func(reason string) {
			warnings = append(warnings, models.MalformedReferenceWarning{
				Module: path,
				Line:   ln.number,
				Text:   strings.TrimSpace(text),
				Reason: reason,
			})
		}

		ref, extra, reason := parseIncludeArg(arg)
		if reason != "" {
			warn(reason)
			continue
		}
		if extra {
			warn("extra tokens after include path")
		}

		if seen[ref.Raw] {
			continue
		}
		seen[ref.Raw] = true
		ref.Line = ln.number
		refs = append(refs, ref)
	}

	return refs, warnings
}

// splitDirective splits "include <a.h>" into its name and argument
func splitDirective(s string) (name, arg string) {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// parseIncludeArg parses the argument of an include directive. A non-empty
// reason means the directive is malformed and produced no reference.
func parseIncludeArg(arg string) (ref models.DependencyReference, extra bool, reason string) {
	if arg == "" {
		return ref, false, "missing include path"
	}

	var closer byte
	switch arg[0] {
	case '<':
		closer = '>'
		ref.Form = models.FormAngle
	case '"':
		closer = '"'
		ref.Form = models.FormQuoted
	default:
		return ref, false, "computed include is not supported"
	}

	end := strings.IndexByte(arg[1:], closer)
	if end < 0 {
		return ref, false, "unterminated include path"
	}
	ref.Raw = strings.TrimSpace(arg[1 : end+1])
	if ref.Raw == "" {
		return ref, false, "empty include path"
	}
	if strings.ContainsAny(ref.Raw, "\t\r") {
		return ref, false, "control character in include path"
	}

	return ref, strings.TrimSpace(arg[end+2:]) != "", ""
}

type logicalLine struct {
	number int // 1-based physical line the logical line starts on
	text   string
}

// logicalLines splits src into lines, joining backslash continuations
func logicalLines(src []byte) []logicalLine {
	physical := strings.Split(string(bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))), "\n")
	lines := make([]logicalLine, 0, len(physical))

	var (
		sb         strings.Builder
		start      int
		continuing bool
	)
	for i, l := range physical {
		if !continuing {
			start = i + 1
		}
		if strings.HasSuffix(l, `\`) {
			sb.WriteString(strings.TrimSuffix(l, `\`))
			continuing = true
			continue
		}
		sb.WriteString(l)
		lines = append(lines, logicalLine{number: start, text: sb.String()})
		sb.Reset()
		continuing = false
	}
	if continuing {
		lines = append(lines, logicalLine{number: start, text: sb.String()})
	}
	return lines
}

// stripComments replaces comment bodies with spaces. Newlines are kept so
// line numbers survive, and string and character literals are skipped so a
// "/*" inside a literal does not open a comment.
func stripComments(src []byte) []byte {
	const (
		code = iota
		lineComment
		blockComment
		stringLit
		charLit
	)

	out := make([]byte, len(src))
	state := code
	for i := 0; i < len(src); i++ {
		c := src[i]
		next := byte(0)
		if i+1 < len(src) {
			next = src[i+1]
		}

		switch state {
		case code:
			switch {
			case c == '/' && next == '/':
				state = lineComment
				out[i], out[i+1] = ' ', ' '
				i++
				continue
			case c == '/' && next == '*':
				state = blockComment
				out[i], out[i+1] = ' ', ' '
				i++
				continue
			case c == '"':
				state = stringLit
			case c == '\'' && (i == 0 || !isIdentByte(src[i-1])):
				state = charLit
			}
			out[i] = c

		case lineComment:
			if c == '\\' {
				j := i + 1
				if j < len(src) && src[j] == '\r' {
					out[j] = ' '
					j++
				}
				if j < len(src) && src[j] == '\n' {
					// Spliced lines extend the comment
					out[i], out[j] = ' ', '\n'
					i = j
					continue
				}
			}
			if c == '\n' {
				state = code
				out[i] = c
				continue
			}
			out[i] = ' '

		case blockComment:
			if c == '*' && next == '/' {
				state = code
				out[i], out[i+1] = ' ', ' '
				i++
				continue
			}
			if c == '\n' {
				out[i] = c
				continue
			}
			out[i] = ' '

		case stringLit, charLit:
			out[i] = c
			quote := byte('"')
			if state == charLit {
				quote = '\''
			}
			switch {
			case c == '\\' && next != 0 && next != '\n':
				out[i+1] = next
				i++
			case c == quote, c == '\n':
				state = code
			}
		}
	}
	return out
}

func isIdentByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
