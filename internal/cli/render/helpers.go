package render

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/govlock/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelStyle         = color.New(color.Faint)
	sectionHeaderStyle = color.New(color.Bold, color.FgHiWhite)
	addressStyle       = color.New(color.FgWhite)
	hashStyle          = color.New(color.FgCyan)
	timestampStyle     = color.New(color.Faint)
	forStyle           = color.New(color.FgGreen)
	againstStyle       = color.New(color.FgRed)
	abstainStyle       = color.New(color.FgYellow)

	titleCaser = cases.Title(language.English)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// StateStyle returns the color of a proposal state
func StateStyle(state models.ProposalState) *color.Color {
	switch state {
	case models.ProposalPending:
		return color.New(color.FgYellow)
	case models.ProposalActive:
		return color.New(color.FgCyan, color.Bold)
	case models.ProposalSucceeded:
		return color.New(color.FgGreen)
	case models.ProposalQueued:
		return color.New(color.FgBlue, color.Bold)
	case models.ProposalExecuted:
		return color.New(color.FgGreen, color.Bold)
	case models.ProposalDefeated, models.ProposalCanceled:
		return color.New(color.FgRed)
	default:
		return color.New(color.Faint)
	}
}

// FormatState renders a proposal state as a colored title
func FormatState(state models.ProposalState) string {
	return StateStyle(state).Sprint(titleCaser.String(state.String()))
}

// ShortHash renders the first four bytes of h
func ShortHash(h common.Hash) string {
	return h.Hex()[:10] + "…"
}

// FormatUnix renders a block timestamp in UTC
func FormatUnix(ts uint64) string {
	if ts == 0 {
		return "-"
	}
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04:05 MST")
}

// FormatInt renders a possibly nil integer
func FormatInt(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// FirstLine returns the first line of s truncated to limit runes
func FirstLine(s string, limit int) string {
	line, _, _ := strings.Cut(s, "\n")
	runes := []rune(strings.TrimSpace(line))
	if len(runes) > limit {
		return string(runes[:limit-1]) + "…"
	}
	return string(runes)
}

// newTable creates a borderless table in the style of the list output
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}
	t.Style().Format.Header = text.FormatDefault
	return t
}

func field(label string, value any) string {
	return fmt.Sprintf("%s %v", labelStyle.Sprintf("%-12s", label+":"), value)
}
