package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

const checkLabelWidth = 20

// checkList prints aligned "label: [STATUS] detail" lines and counts failures.
type checkList struct {
	out      io.Writer
	colorize bool
	failed   int
}

func newCheckList(out io.Writer) *checkList {
	return &checkList{out: out, colorize: shouldColorize(out)}
}

func (c *checkList) ok(label, detail string) { c.line(label, "OK", ansiGreen, detail) }

func (c *checkList) warn(label, detail string) { c.line(label, "WARN", ansiYellow, detail) }

func (c *checkList) fail(label, detail string) {
	c.failed++
	c.line(label, "ERROR", ansiRed, detail)
}

func (c *checkList) line(label, status, color, detail string) {
	text := fmt.Sprintf("  %-*s [%s]", checkLabelWidth, label+":", status)
	if detail != "" {
		text += " " + detail
	}
	if c.colorize {
		text = color + text + ansiReset
	}
	fmt.Fprintln(c.out, text)
}

// shouldColorize reports whether w is a terminal.
func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
