package colorize

import (
	"fmt"
	"os"
)

// IsDisabled returns true if colors are disabled via environment
func IsDisabled() bool {
	return os.Getenv("SKIFF_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

// Header formats section header text in blue
func Header(s string) string {
	if IsDisabled() {
		return s
	}
	return headerStyle.Render(s)
}

// Address formats a guest address in yellow
func Address(addr uint64) string {
	s := fmt.Sprintf("%08X", addr)
	if IsDisabled() {
		return s
	}
	return labelStyle.Render(s)
}

// FuncName formats a symbol name in yellow (IDA style labels)
func FuncName(name string) string {
	if IsDisabled() {
		return name
	}
	return labelStyle.Render(name)
}

// Tag formats a hashtag in light pink
func Tag(tag string) string {
	if IsDisabled() {
		return tag
	}
	return tagStyle.Render(tag)
}

// Detail formats detail text in light gray
func Detail(detail string) string {
	if IsDisabled() {
		return detail
	}
	return detailStyle.Render(detail)
}

// Border formats border characters in dark gray
func Border(s string) string {
	if IsDisabled() {
		return s
	}
	return borderStyle.Render(s)
}

// Comment formats comments in orange
func Comment(s string) string {
	if IsDisabled() {
		return s
	}
	return commentStyle.Render(s)
}

// Error formats error messages in pink
func Error(s string) string {
	if IsDisabled() {
		return s
	}
	return errorStyle.Render(s)
}

// OK formats passing check marks in green
func OK(s string) string {
	if IsDisabled() {
		return s
	}
	return okStyle.Render(s)
}
