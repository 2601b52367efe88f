package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/logpanel/internal/filter"
	"github.com/five82/logpanel/internal/logstore"
)

// renderHeader renders the top bar: name, per-severity counts of the visible
// rows and the active time format.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("logpanel", styles.Logo)}

	counts := severityCounts(m.panel.visible)
	for _, sev := range logstore.Severities {
		label := sev.String()
		if compact {
			label = label[:1]
		}
		countStyle := styles.MutedText
		if counts[sev] > 0 {
			countStyle = styles.SeverityStyle(sev)
		}
		parts = append(parts,
			bg.Render(label+":", styles.FaintText)+bg.Space()+
				bg.Render(humanize.Comma(int64(counts[sev])), countStyle))
	}

	if !compact {
		timeLabel := string(m.panel.format.Time)
		if m.panel.format.Time != filter.TimeHide {
			timeLabel += " " + string(m.panel.format.Precision)
		}
		parts = append(parts,
			bg.Render("time", styles.FaintText)+bg.Space()+bg.Render(timeLabel, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Padding(0, 1).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// severityCounts tallies records by severity.
func severityCounts(records []logstore.Record) map[logstore.Severity]int {
	counts := make(map[logstore.Severity]int, len(logstore.Severities))
	for _, rec := range records {
		counts[rec.Severity]++
	}
	return counts
}

// renderCommandBar renders the key hints for the current mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.mode {
	case modeSearch:
		commands = []cmd{
			{"Enter", "Keep"},
			{"Esc", "Cancel"},
		}
	case modeInput:
		commands = []cmd{
			{"Enter", "Log " + m.input.Severity.String() + " [" + m.input.Category + "]"},
			{"Esc", "Done"},
		}
	default:
		followLabel := "Pause"
		if !m.panel.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"/", "Search"},
			{"s", "Min " + m.panel.filter.MinSeverity.String()},
			{"f", "Categories"},
			{"r", onOff("Regex", m.panel.filter.UseRegex)},
			{"c", onOff("Case", m.panel.filter.CaseSensitive)},
			{"y", "Copy"},
			{"i", "Write"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

func onOff(label string, on bool) string {
	if on {
		return label + " on"
	}
	return label + " off"
}
