// Package tui holds the interactive overlays the CLI offers on top of its
// plain command output: a version picker and a confirmation dialog. Both
// run as standalone bubbletea programs on the caller's terminal.
package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPickerCancelled is returned when the user dismisses the version picker
// without choosing anything.
var ErrPickerCancelled = errors.New("version selection cancelled")

// pickerModel is the version picker: the registry's ordered version list
// (newest first) with the stable tag and the installed version marked.
type pickerModel struct {
	library string

	list list.Model
	help help.Model

	choice    string
	cancelled bool
}

func newPickerModel(library string, versions []string, stable, installed string) pickerModel {
	l := list.New(versionsToItems(versions, stable, installed), versionDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetShowPagination(false)

	// Start the cursor on the installed version so updates default to
	// stepping away from it.
	for i, v := range versions {
		if installed != "" && v == installed {
			l.Select(i)
			break
		}
	}

	return pickerModel{
		library: library,
		list:    l,
		help:    help.New(),
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, max(1, msg.Height-3))
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		// Don't intercept keys while filtering.
		if m.list.SettingFilter() {
			break
		}

		switch {
		case key.Matches(msg, keys.Enter):
			if item := m.list.SelectedItem(); item != nil {
				if vi, ok := item.(versionItem); ok {
					m.choice = vi.version
					return m, tea.Quit
				}
			}
			return m, nil

		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	header := sectionHeaderStyle.Render("  SELECT VERSION") +
		mutedStyle.Render("  "+m.library) + "\n"
	return header + m.list.View() + "\n" +
		helpStyle.Render("  "+m.help.ShortHelpView(pickerHelpKeyMap{}.ShortHelp()))
}

// PickVersion runs the version picker and returns the chosen version.
// Returns ErrPickerCancelled if the user backs out.
func PickVersion(library string, versions []string, stable, installed string) (string, error) {
	model := newPickerModel(library, versions, stable, installed)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", err
	}

	m, ok := final.(pickerModel)
	if !ok || m.cancelled || m.choice == "" {
		return "", ErrPickerCancelled
	}
	return m.choice, nil
}
