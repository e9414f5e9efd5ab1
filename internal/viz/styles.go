package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravfield/internal/field"
)

var (
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	MetricLabel lipgloss.Style
	MetricValue lipgloss.Style
	KeyHint     lipgloss.Style
	ErrorText   lipgloss.Style
	Panel       lipgloss.Style

	SparkHigh lipgloss.Style
	SparkMid  lipgloss.Style
	SparkLow  lipgloss.Style
)

func init() {
	applyTheme(CurrentTheme)
}

func applyTheme(t Theme) {
	Title = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	MetricLabel = lipgloss.NewStyle().Foreground(t.Muted)
	MetricValue = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	KeyHint = lipgloss.NewStyle().Italic(true).Foreground(t.Muted)
	ErrorText = lipgloss.NewStyle().Bold(true).Foreground(t.Error)
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Muted).
		Padding(0, 1)

	SparkHigh = lipgloss.NewStyle().Foreground(t.High)
	SparkMid = lipgloss.NewStyle().Foreground(t.Mid)
	SparkLow = lipgloss.NewStyle().Foreground(t.Low)
}

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws every stride-th mesh node of values as one block. Heights
// are normalised to rng rather than to the row itself, so rows of one level
// are comparable.
func Sparkline(values []float64, rng field.Range, stride int) string {
	if stride < 1 {
		stride = 1
	}
	if len(values) == 0 || rng.IsEmpty() {
		return ""
	}
	span := rng.Span()

	var b strings.Builder
	for ix := 0; ix < len(values); ix += stride {
		norm := 0.0
		if span > 0 {
			norm = math.Min(math.Max((values[ix]-rng.Min)/span, 0), 1)
		}
		c := string(sparkBlocks[int(math.Round(norm*float64(len(sparkBlocks)-1)))])
		switch {
		case norm > 0.7:
			b.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(SparkMid.Render(c))
		default:
			b.WriteString(SparkLow.Render(c))
		}
	}
	return b.String()
}

// SparklineStride picks the node stride that fits n nodes into width cells.
func SparklineStride(n, width int) int {
	if width < 1 || n <= width {
		return 1
	}
	return (n + width - 1) / width
}

// Separator renders a muted horizontal rule
func Separator(width int) string {
	if width < 8 {
		return Subtle.Render(strings.Repeat("─", width))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}

// KeyValue renders "label: value" with metric styles
func KeyValue(label, value string) string {
	return MetricLabel.Render(label+": ") + MetricValue.Render(value)
}
