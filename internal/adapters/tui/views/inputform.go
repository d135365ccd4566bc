package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pictag/internal/adapters/tui/styles"
	"pictag/internal/application"
)

// InputFormKeyMap defines key bindings for input forms
type InputFormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

var InputFormKeys = InputFormKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
}

// Field limits, in characters
const (
	nameLimit = 100
	typeLimit = 40
)

// InputField is one labelled text input. Check, when set, runs on submit.
type InputField struct {
	Label string
	Input textinput.Model
	Check func(value string) error
}

// NewInputField creates an unchecked field
func NewInputField(label, placeholder string, charLimit int) InputField {
	input := textinput.New()
	input.Placeholder = placeholder
	input.CharLimit = charLimit
	return InputField{Label: label, Input: input}
}

// NodeNameField is the name of a new tag or category
func NodeNameField() InputField {
	f := NewInputField("Name", "#tag, or a category name without #", nameLimit)
	f.Check = func(v string) error { return application.ValidateName("name", v) }
	return f
}

// SynonymField is an alternative name for a tag
func SynonymField() InputField {
	f := NewInputField("Synonym", "#Touhou", nameLimit)
	f.Check = func(v string) error { return application.ValidateName("synonym", v) }
	return f
}

// EnglishNameField is a tag's English name; empty clears it
func EnglishNameField() InputField {
	f := NewInputField("English name", "Touhou Project", nameLimit)
	f.Check = application.ValidateEnglishName
	return f
}

// TypeField is a tag's free-form type label
func TypeField() InputField {
	return NewInputField("Type", "IP, Character, R-18...", typeLimit)
}

// InputForm is a stack of fields with one focused at a time
type InputForm struct {
	Fields  []InputField
	Focused int
	Keys    InputFormKeyMap
}

// NewInputForm creates a form with the first field focused
func NewInputForm(fields ...InputField) *InputForm {
	f := &InputForm{Fields: fields, Keys: InputFormKeys}
	f.focus(0)
	return f
}

// Init returns the cursor blink command
func (f *InputForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update moves focus on tab and shift+tab, and feeds everything else to the
// focused input
func (f *InputForm) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && len(f.Fields) > 1 {
		switch {
		case key.Matches(msg, f.Keys.Next):
			f.focus((f.Focused + 1) % len(f.Fields))
			return nil
		case key.Matches(msg, f.Keys.Prev):
			f.focus((f.Focused + len(f.Fields) - 1) % len(f.Fields))
			return nil
		}
	}

	if f.Focused >= len(f.Fields) {
		return nil
	}
	var cmd tea.Cmd
	f.Fields[f.Focused].Input, cmd = f.Fields[f.Focused].Input.Update(msg)
	return cmd
}

func (f *InputForm) focus(index int) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	for i := range f.Fields {
		f.Fields[i].Input.Blur()
	}
	f.Focused = index
	f.Fields[index].Input.Focus()
}

// Value returns the trimmed value of a field
func (f *InputForm) Value(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	return strings.TrimSpace(f.Fields[index].Input.Value())
}

// SetValue sets the value of a field
func (f *InputForm) SetValue(index int, value string) {
	if index < 0 || index >= len(f.Fields) {
		return
	}
	f.Fields[index].Input.SetValue(value)
}

// Validate runs every field check and focuses the first failing field
func (f *InputForm) Validate() error {
	for i, field := range f.Fields {
		if field.Check == nil {
			continue
		}
		if err := field.Check(f.Value(i)); err != nil {
			f.focus(i)
			return err
		}
	}
	return nil
}

// RenderField renders a field with its label, highlighting the focused one
func (f *InputForm) RenderField(index int) string {
	if index < 0 || index >= len(f.Fields) {
		return ""
	}
	field := f.Fields[index]
	box := styles.InputField
	if index == f.Focused {
		box = styles.InputFocused
	}
	return styles.InputLabel.Render(field.Label) + "\n" + box.Render(field.Input.View())
}

// RenderHelp renders the form's key help with submitText for enter
func (f *InputForm) RenderHelp(submitText string) string {
	bindings := []key.Binding{}
	if len(f.Fields) > 1 {
		bindings = append(bindings, f.Keys.Next)
	}
	submit := f.Keys.Submit
	submit.SetHelp("enter", submitText)
	return RenderHelpLine(append(bindings, submit, f.Keys.Cancel)...)
}
