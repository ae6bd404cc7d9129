package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Option is one entry of a Dropdown. The zero Value stands for "no choice".
type Option[T ~string] struct {
	Value T
	Label string
}

// Dropdown is a single-select list that collapses to its current label.
type Dropdown[T ~string] struct {
	label    string
	options  []Option[T]
	selected int
	cursor   int
	open     bool
	focused  bool
}

func NewDropdown[T ~string](label string, options []Option[T]) *Dropdown[T] {
	return &Dropdown[T]{label: label, options: options}
}

func (d *Dropdown[T]) Focus()        { d.focused = true }
func (d *Dropdown[T]) Focused() bool { return d.focused }
func (d *Dropdown[T]) Open() bool    { return d.open }

func (d *Dropdown[T]) Blur() {
	d.focused = false
	d.open = false
}

// Value returns the selected value, or nil when the empty option is chosen.
func (d *Dropdown[T]) Value() *T {
	if len(d.options) == 0 {
		return nil
	}
	v := d.options[d.selected].Value
	if v == "" {
		return nil
	}
	return &v
}

// Select picks the option holding v. It reports whether one was found.
func (d *Dropdown[T]) Select(v T) bool {
	for i, o := range d.options {
		if o.Value == v {
			d.selected = i
			d.cursor = i
			return true
		}
	}
	return false
}

// Update handles keys while focused and reports whether the selection changed.
func (d *Dropdown[T]) Update(msg tea.Msg) bool {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !d.focused || len(d.options) == 0 {
		return false
	}

	if !d.open {
		switch key.String() {
		case "enter", " ":
			d.open = true
			d.cursor = d.selected
		case "left", "h":
			return d.choose((d.selected - 1 + len(d.options)) % len(d.options))
		case "right", "l":
			return d.choose((d.selected + 1) % len(d.options))
		}
		return false
	}

	switch key.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.options)-1 {
			d.cursor++
		}
	case "enter", " ":
		d.open = false
		return d.choose(d.cursor)
	case "esc":
		d.open = false
	}
	return false
}

func (d *Dropdown[T]) choose(i int) bool {
	changed := i != d.selected
	d.selected = i
	d.cursor = i
	return changed
}

func (d *Dropdown[T]) View() string {
	current := ""
	if len(d.options) > 0 {
		current = d.options[d.selected].Label
	}

	style := inputStyle
	if d.focused {
		style = focusedInputStyle
	}
	view := labelStyle.Render(d.label) + " " + style.Render("["+current+" ▾]")
	if !d.open {
		return view
	}

	var b strings.Builder
	for i, o := range d.options {
		cursor := " "
		item := menuItemStyle.Render(o.Label)
		if i == d.cursor {
			cursor = ">"
			item = selectedMenuItemStyle.Render(o.Label)
		}
		b.WriteString(cursor + " " + item + "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, view, dropdownStyle.Render(strings.TrimSuffix(b.String(), "\n")))
}
