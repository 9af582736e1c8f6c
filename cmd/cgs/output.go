package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kalambet/cgs/internal/storage"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

// printCourses writes one line per course: id, title and skills.
func printCourses(w io.Writer, courses []storage.Course) {
	if len(courses) == 0 {
		fmt.Fprintln(w, "No courses found.")
		return
	}
	for _, c := range courses {
		skills := "-"
		if len(c.Skills) > 0 {
			skills = strings.Join(c.Skills, ", ")
		}
		fmt.Fprintf(w, "%s  %s  %s\n",
			colorize(colorCyan, fmt.Sprintf("%4d", c.ID)),
			colorize(colorBold, c.Title),
			skills,
		)
	}
}
