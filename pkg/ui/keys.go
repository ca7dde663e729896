package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/davidRoussov/json-to-terminal/pkg/navigator"
)

// Actions handled by the UI itself rather than the navigator.
const (
	actionCopy = "copy"
	actionHelp = "help"
)

type keyMap struct {
	Quit           key.Binding
	SelectNext     key.Binding
	SelectPrevious key.Binding
	First          key.Binding
	Last           key.Binding
	Deepen         key.Binding
	Rise           key.Binding
	ToggleFilter   key.Binding
	NextValue      key.Binding
	PreviousValue  key.Binding
	Choose         key.Binding
	Copy           key.Binding
	Help           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		SelectNext:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next")),
		SelectPrevious: key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous")),
		First:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
		Last:           key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
		Deepen:         key.NewBinding(key.WithKeys("+", "l", "right"), key.WithHelp("+/l", "deeper")),
		Rise:           key.NewBinding(key.WithKeys("-", "h", "left"), key.WithHelp("-/h", "higher")),
		ToggleFilter:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "primary only")),
		NextValue:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next value")),
		PreviousValue:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "previous value")),
		Choose:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
		Copy:           key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// binding returns the binding for an action name as used in the config file.
func (k *keyMap) binding(action string) (*key.Binding, bool) {
	switch action {
	case actionCopy:
		return &k.Copy, true
	case actionHelp:
		return &k.Help, true
	}
	ev, ok := navigator.ParseEvent(action)
	if !ok {
		return nil, false
	}
	switch ev {
	case navigator.EventQuit:
		return &k.Quit, true
	case navigator.EventSelectNext:
		return &k.SelectNext, true
	case navigator.EventSelectPrevious:
		return &k.SelectPrevious, true
	case navigator.EventFirst:
		return &k.First, true
	case navigator.EventLast:
		return &k.Last, true
	case navigator.EventDeepen:
		return &k.Deepen, true
	case navigator.EventRise:
		return &k.Rise, true
	case navigator.EventToggleFilterMode:
		return &k.ToggleFilter, true
	case navigator.EventNextValue:
		return &k.NextValue, true
	case navigator.EventPreviousValue:
		return &k.PreviousValue, true
	case navigator.EventChoose:
		return &k.Choose, true
	}
	return nil, false
}

// withOverrides replaces the keys of every action named in overrides. The
// help text keeps its description and shows the new first key.
func (k keyMap) withOverrides(overrides map[string][]string) (keyMap, error) {
	actions := make([]string, 0, len(overrides))
	for action := range overrides {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	for _, action := range actions {
		keys := overrides[action]
		b, ok := k.binding(action)
		if !ok {
			return k, fmt.Errorf("keys: unknown action %q", action)
		}
		if len(keys) == 0 {
			return k, fmt.Errorf("keys: no keys bound to %q", action)
		}
		desc := b.Help().Desc
		*b = key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
	}
	return k, nil
}

// event decodes a key press into a navigator event.
func (k keyMap) event(msg tea.KeyMsg) navigator.Event {
	switch {
	case key.Matches(msg, k.Quit):
		return navigator.EventQuit
	case key.Matches(msg, k.SelectNext):
		return navigator.EventSelectNext
	case key.Matches(msg, k.SelectPrevious):
		return navigator.EventSelectPrevious
	case key.Matches(msg, k.First):
		return navigator.EventFirst
	case key.Matches(msg, k.Last):
		return navigator.EventLast
	case key.Matches(msg, k.Deepen):
		return navigator.EventDeepen
	case key.Matches(msg, k.Rise):
		return navigator.EventRise
	case key.Matches(msg, k.ToggleFilter):
		return navigator.EventToggleFilterMode
	case key.Matches(msg, k.NextValue):
		return navigator.EventNextValue
	case key.Matches(msg, k.PreviousValue):
		return navigator.EventPreviousValue
	case key.Matches(msg, k.Choose):
		return navigator.EventChoose
	}
	return navigator.EventNone
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SelectNext, k.Deepen, k.Rise, k.ToggleFilter, k.Choose, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SelectNext, k.SelectPrevious, k.First, k.Last},
		{k.Deepen, k.Rise, k.ToggleFilter},
		{k.NextValue, k.PreviousValue, k.Choose, k.Copy},
		{k.Help, k.Quit},
	}
}
