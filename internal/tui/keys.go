package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Open    key.Binding
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Reload  key.Binding
	Submit  key.Binding
	Next    key.Binding
	Prev    key.Binding
	Back    key.Binding
	Resume  key.Binding
	Quit    key.Binding
	ForceQ  key.Binding
	Advance key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new post")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Next:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back to list")),
		Resume:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "resume edit")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ:  key.NewBinding(key.WithKeys("ctrl+c")),
		Advance: key.NewBinding(key.WithKeys("enter")),
	}
}

// ShortHelp and FullHelp let keyMap drive bubbles/help in list focus.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.New, k.Edit, k.Delete, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Submit, k.Next, k.Prev, k.Back, k.Resume}}
}

type formKeys struct{ k keyMap }

func (f formKeys) ShortHelp() []key.Binding {
	return []key.Binding{f.k.Submit, f.k.Next, f.k.Prev, f.k.Back}
}

func (f formKeys) FullHelp() [][]key.Binding { return [][]key.Binding{f.ShortHelp()} }
