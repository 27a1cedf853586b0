package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func updatePicker(t *testing.T, m pickerModel, msg tea.Msg) pickerModel {
	t.Helper()
	updated, _ := m.Update(msg)
	pm, ok := updated.(pickerModel)
	if !ok {
		t.Fatalf("Update returned %T, want pickerModel", updated)
	}
	return pm
}

func TestPicker_StartsOnInstalledVersion(t *testing.T) {
	m := newPickerModel("alpha", []string{"3.0.0", "2.5.0", "2.0.0"}, "3.0.0", "2.5.0")

	item := m.list.SelectedItem()
	vi, ok := item.(versionItem)
	if !ok {
		t.Fatalf("selected item is %T", item)
	}
	if vi.version != "2.5.0" {
		t.Errorf("initial cursor on %q, want installed version 2.5.0", vi.version)
	}
}

func TestPicker_EnterSelects(t *testing.T) {
	m := newPickerModel("alpha", []string{"3.0.0", "2.5.0"}, "3.0.0", "")
	m = pickerAtSize(m)

	m = updatePicker(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = updatePicker(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.cancelled {
		t.Fatal("selection reported as cancelled")
	}
	if m.choice != "2.5.0" {
		t.Errorf("choice = %q, want 2.5.0", m.choice)
	}
}

func TestPicker_EscapeCancels(t *testing.T) {
	m := newPickerModel("alpha", []string{"1.0.0"}, "1.0.0", "")
	m = pickerAtSize(m)

	m = updatePicker(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.cancelled {
		t.Error("escape did not cancel the picker")
	}
	if m.choice != "" {
		t.Errorf("cancelled picker recorded choice %q", m.choice)
	}
}

func TestPicker_ViewMarksStableAndInstalled(t *testing.T) {
	m := newPickerModel("alpha", []string{"3.0.0-rc.1", "2.5.0"}, "2.5.0", "2.5.0")
	m = pickerAtSize(m)

	view := m.View()
	for _, want := range []string{"alpha", "3.0.0-rc.1", "2.5.0", "stable", "(installed)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func pickerAtSize(m pickerModel) pickerModel {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(pickerModel)
}
