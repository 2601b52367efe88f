package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/five82/logpanel/internal/logstore"
)

// categoryList is the state of the category filter modal.
type categoryList struct {
	items  []logstore.CategoryCount
	cursor int
	offset int
}

// reload lists the categories in the store plus any hidden category that has
// since been evicted, so it can still be shown again.
func (c *categoryList) reload(store *logstore.Store, hidden map[string]bool) {
	var items []logstore.CategoryCount
	if store != nil {
		items = store.Categories()
	}
	present := make(map[string]bool, len(items))
	for _, item := range items {
		present[item.Name] = true
	}
	for name := range hidden {
		if hidden[name] && !present[name] {
			items = append(items, logstore.CategoryCount{Name: name})
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	c.items = items
	c.cursor = min(c.cursor, max(len(items)-1, 0))
	c.scroll()
}

// selected returns the category under the cursor.
func (c *categoryList) selected() (string, bool) {
	if c.cursor < 0 || c.cursor >= len(c.items) {
		return "", false
	}
	return c.items[c.cursor].Name, true
}

func (c *categoryList) move(delta int) {
	if len(c.items) == 0 {
		return
	}
	c.cursor = min(max(c.cursor+delta, 0), len(c.items)-1)
	c.scroll()
}

// scroll keeps the cursor inside the visible window.
func (c *categoryList) scroll() {
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+categoryModalRows {
		c.offset = c.cursor - categoryModalRows + 1
	}
	c.offset = max(c.offset, 0)
}

// openCategories shows the category modal.
func (m *Model) openCategories() {
	m.categories.reload(m.store, m.panel.filter.HiddenCategories)
	m.mode = modeCategories
}

// handleCategoriesKey handles keyboard input for the category modal.
func (m *Model) handleCategoriesKey(msg tea.KeyMsg) tea.Cmd {
	f := &m.panel.filter

	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Categories):
		m.mode = modeNormal
		return nil

	case msg.String() == "ctrl+c":
		return tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.categories.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.categories.move(1)

	case key.Matches(msg, m.keys.Top):
		m.categories.move(-len(m.categories.items))

	case key.Matches(msg, m.keys.Bottom):
		m.categories.move(len(m.categories.items))

	case key.Matches(msg, m.keys.ToggleHidden):
		name, ok := m.categories.selected()
		if !ok {
			return nil
		}
		if f.HiddenCategories[name] {
			delete(f.HiddenCategories, name)
		} else {
			if f.HiddenCategories == nil {
				f.HiddenCategories = make(map[string]bool)
			}
			f.HiddenCategories[name] = true
		}
		m.filterChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.Confirm):
		name, ok := m.categories.selected()
		if !ok {
			return nil
		}
		if f.Category == name {
			f.Category = ""
		} else {
			f.Category = name
		}
		m.filterChanged()
		return nil

	case key.Matches(msg, m.keys.ShowAll):
		f.Category = ""
		f.HiddenCategories = nil
		m.filterChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.HideAll):
		hidden := make(map[string]bool, len(m.categories.items))
		for _, item := range m.categories.items {
			hidden[item.Name] = true
		}
		f.HiddenCategories = hidden
		m.filterChanged()
		return m.savePrefs()
	}

	return nil
}

// renderCategories renders the category modal.
func (m Model) renderCategories() string {
	styles := m.theme.Styles()
	f := m.panel.filter
	list := m.categories

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Categories"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", categoryModalWidth-6)))
	b.WriteString("\n\n")

	if len(list.items) == 0 {
		b.WriteString(styles.MutedText.Render("No categories yet."))
		b.WriteString("\n")
	}

	end := min(list.offset+categoryModalRows, len(list.items))
	for i := list.offset; i < end; i++ {
		item := list.items[i]

		mark := "[x]"
		if f.HiddenCategories[item.Name] {
			mark = "[ ]"
		}
		name := item.Name
		if name == "" {
			name = "(none)"
		}
		if f.Category == item.Name {
			name += " ●"
		}
		count := humanize.Comma(int64(item.Count))
		nameWidth := categoryModalWidth - 6 - len(mark) - 1 - len(count) - 1
		line := fmt.Sprintf("%s %-*s %s", mark, nameWidth, clipCells(name, nameWidth), count)

		switch {
		case i == list.cursor:
			b.WriteString(styles.Selected.Render(line))
		case f.HiddenCategories[item.Name]:
			b.WriteString(styles.FaintText.Render(line))
		default:
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	if len(list.items) > categoryModalRows {
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%d-%d of %d", list.offset+1, end, len(list.items))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Space: Show/Hide  •  Enter: Only  •  a: All  •  n: None"))

	return m.renderModal(b.String(), categoryModalWidth)
}
