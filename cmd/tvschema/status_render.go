package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
	statusSkip
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiGray   = "\x1b[90m"
)

const (
	minStatusLabelWidth = 12
	statusIndent        = "  "
)

// statusLine is one labelled row of a build or check report.
type statusLine struct {
	label   string
	kind    statusKind
	message string
}

// statusBlock collects lines so labels can be aligned to the longest one.
type statusBlock struct {
	lines []statusLine
}

func (b *statusBlock) add(label string, kind statusKind, message string) {
	b.lines = append(b.lines, statusLine{label: label, kind: kind, message: message})
}

func (b *statusBlock) addf(label string, kind statusKind, format string, args ...any) {
	b.add(label, kind, fmt.Sprintf(format, args...))
}

func (b *statusBlock) render(out io.Writer, colorize bool) {
	width := minStatusLabelWidth
	for _, line := range b.lines {
		if n := len(line.label) + 1; n > width {
			width = n
		}
	}
	for _, line := range b.lines {
		fmt.Fprintln(out, formatStatusLine(line, width, colorize))
	}
}

func formatStatusLine(line statusLine, width int, colorize bool) string {
	status := "[" + statusKindLabel(line.kind) + "]"
	if line.message != "" {
		status += " " + line.message
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, width, line.label+":", status)
	if colorize {
		if color := statusKindColor(line.kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	case statusSkip:
		return "SKIP"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusSkip:
		return ansiGray
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
