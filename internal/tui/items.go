package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// versionItem wraps one registry version for the picker list.
type versionItem struct {
	version   string
	stable    bool // carries the registry's latest-stable tag
	installed bool // matches the currently installed version
}

func (i versionItem) FilterValue() string { return i.version }

// versionDelegate renders versions as: "  > 2.5.0  stable  (installed)"
type versionDelegate struct{}

func (d versionDelegate) Height() int                             { return 1 }
func (d versionDelegate) Spacing() int                            { return 0 }
func (d versionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d versionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	vi, ok := item.(versionItem)
	if !ok {
		return
	}

	isSelected := index == m.Index()

	indicator := "    "
	if isSelected {
		indicator = "  > "
	}

	version := normalItemStyle.Render(vi.version)
	if isSelected {
		version = selectedItemStyle.Render(vi.version)
	}

	line := indicator + version
	if vi.stable {
		line += "  " + badgeStyle.Render("stable")
	}
	if vi.installed {
		line += "  " + installedStyle.Render("(installed)")
	}

	if m.Width() > 0 {
		line = ansi.Truncate(line, m.Width(), "…")
	}
	_, _ = fmt.Fprint(w, line)
}

// versionsToItems converts an ordered version list (newest first) to list
// items, marking the stable tag and the installed version.
func versionsToItems(versions []string, stable, installed string) []list.Item {
	items := make([]list.Item, len(versions))
	for i, v := range versions {
		items[i] = versionItem{
			version:   v,
			stable:    v == stable,
			installed: installed != "" && v == installed,
		}
	}
	return items
}
