package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
)

// accountItem represents a selectable account in the multi-select
type accountItem struct {
	alias   string
	address string
}

// multiSelectModel is the bubbletea model for multi-select
type multiSelectModel struct {
	items    []accountItem
	cursor   int
	selected map[int]bool
	title    string
	done     bool
	canceled bool
}

// initialMultiSelectModel creates the initial model for multi-select
func initialMultiSelectModel(items []accountItem, title string) multiSelectModel {
	return multiSelectModel{
		items:    items,
		selected: make(map[int]bool),
		title:    title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "ctrl+c", "q", "esc":
		m.canceled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case " ":
		m.selected[m.cursor] = !m.selected[m.cursor]
	case "a":
		all := len(m.chosen()) < len(m.items)
		for i := range m.items {
			m.selected[i] = all
		}
	case "enter":
		if len(m.chosen()) > 0 {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

// chosen returns the selected indices in display order
func (m multiSelectModel) chosen() []int {
	var out []int
	for i := range m.items {
		if m.selected[i] {
			out = append(out, i)
		}
	}
	return out
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := color.New(color.FgWhite).Sprint("○")
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		}

		alias := color.New(color.FgYellow).Sprintf("%-10s", item.alias)
		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, checkbox, alias, color.New(color.Faint).Sprint(item.address)))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  a: all  Enter: confirm  q: quit\n"))

	return b.String()
}

// accountItems lists configured accounts sorted by alias
func accountItems(accounts map[string]string) []accountItem {
	items := make([]accountItem, 0, len(accounts))
	for alias, address := range accounts {
		items = append(items, accountItem{alias: alias, address: address})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].alias < items[j].alias })
	return items
}

// SelectAccounts shows a multi-select interface and returns the selected aliases
func SelectAccounts(accounts map[string]string, title string) ([]string, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts to select")
	}

	items := accountItems(accounts)
	finalModel, err := tea.NewProgram(initialMultiSelectModel(items, title)).Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}

	aliases := make([]string, 0, len(m.selected))
	for _, i := range m.chosen() {
		aliases = append(aliases, items[i].alias)
	}
	return aliases, nil
}
