package view

import (
	"github.com/fatih/color"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Priority color scheme. Orange has no plain ANSI code, so high renders as
// yellow. Unknown values fall back to gray rather than failing.
var (
	lowColor     = color.New(color.FgGreen)
	mediumColor  = color.New(color.FgBlue)
	highColor    = color.New(color.FgYellow)
	urgentColor  = color.New(color.FgRed)
	unknownColor = color.New(color.FgHiBlack)
)

// PriorityColor maps a priority to its display color.
func PriorityColor(p domain.Priority) *color.Color {
	switch p {
	case domain.PriorityLow:
		return lowColor
	case domain.PriorityMedium:
		return mediumColor
	case domain.PriorityHigh:
		return highColor
	case domain.PriorityUrgent:
		return urgentColor
	default:
		return unknownColor
	}
}

// PriorityBadge renders a colored capitalized label, "High" style. Unknown
// values render as-is in gray.
func PriorityBadge(p domain.Priority) string {
	return PriorityColor(p).Sprint(titleCase(string(p)))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
