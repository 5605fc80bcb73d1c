// Package errors formats lex/parse errors with source context and a caret.
package errors

import (
	"fmt"
	"strings"

	"github.com/jdmichaud/go-jlisp/internal/token"
)

// SyntaxError is a lex or parse failure at a specific source position. It
// is the single error type returned by the lexer, reader, and parser; the
// Stage field distinguishes "lex" from "parse" failures for callers that
// care, though both share this one shape.
type SyntaxError struct {
	Stage   string // "lex" or "parse"
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// Error implements the error interface with a single line, suitable for
// %w-wrapping.
func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s error at %d:%d: %s", e.File, e.Stage, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s error at %d:%d: %s", e.Stage, e.Pos.Line, e.Pos.Column, e.Message)
}

// Format renders the error with the offending source line and a caret
// pointing at the column, for CLI diagnostics. Lines and columns are
// displayed 1-based even though Position is zero-based internally.
func (e *SyntaxError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", e.File, e.Pos.Line+1, e.Pos.Column+1)
	} else {
		fmt.Fprintf(&sb, "Error at %d:%d\n", e.Pos.Line+1, e.Pos.Column+1)
	}

	if line := sourceLine(e.Source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line+1)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// sourceLine extracts the (zero-based) lineNum-th line from source.
func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 0 || lineNum >= len(lines) {
		return ""
	}
	return lines[lineNum]
}
