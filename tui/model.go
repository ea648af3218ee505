package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"git.sr.ht/~mariusor/gni/events"
	"git.sr.ht/~mariusor/gni/storage"
)

const pageSize = 10

// Model is a terminal browser over the events: a search box above the filtered list.
type Model struct {
	input   textinput.Model
	all     events.Events
	list    events.Events
	cursor  int
	tonight bool

	store storage.Store
	saved storage.Selection
	err   error
}

func New(list events.Events, st storage.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "Artists, venues, notes..."
	ti.Focus()
	ti.CharLimit = 156
	ti.Width = 45

	m := Model{
		input: ti,
		all:   list,
		store: st,
		saved: st.Load(),
	}
	m.filter()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) query() events.Query {
	return events.Query{Text: m.input.Value(), TonightOnly: m.tonight}
}

func (m *Model) filter() {
	m.list = events.Filter(m.all, m.query())
	if m.cursor >= len(m.list) {
		m.cursor = len(m.list) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Current returns the event under the cursor.
func (m Model) Current() (events.Event, bool) {
	if len(m.list) == 0 {
		return events.Event{}, false
	}
	return m.list[m.cursor], true
}

func (m Model) Saved() storage.Selection {
	return m.saved
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.list)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyTab:
			m.tonight = !m.tonight
			m.filter()
			return m, nil
		case tea.KeyCtrlS:
			if e, ok := m.Current(); ok {
				sel, err := storage.Toggle(m.store, e.ID)
				m.err = err
				if err == nil {
					m.saved = sel
				}
			}
			return m, nil
		}
	}

	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = 0
		m.filter()
	}
	return m, cmd
}

func (m Model) View() string {
	b := strings.Builder{}
	b.WriteString("GNI PICKS\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.tonight {
		b.WriteString("[tonight only]\n")
	}
	b.WriteString("\n")

	if len(m.list) == 0 {
		b.WriteString("  No matches. Try a different vibe.\n")
	}
	start := 0
	if m.cursor >= pageSize {
		start = m.cursor - pageSize + 1
	}
	for i := start; i < len(m.list) && i < start+pageSize; i++ {
		e := m.list[i]
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		mark := " "
		if m.saved.Contains(e.ID) {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %s %s", cursor, mark, e.Name)
		if e.TonightFeatured {
			b.WriteString(" (tonight pick)")
		}
		b.WriteString("\n")
		if i == m.cursor {
			if s := e.Schedule(); s != "" {
				fmt.Fprintf(&b, "      %s\n", s)
			}
			if p := e.Place(); p != "" {
				fmt.Fprintf(&b, "      %s\n", p)
			}
		}
	}
	if m.err != nil {
		fmt.Fprintf(&b, "\nError: %s\n", m.err)
	}
	fmt.Fprintf(&b, "\n%d events, %d saved · up/down move · ctrl+s save · tab tonight only · esc quit\n", len(m.list), m.saved.Len())
	return b.String()
}

// Run starts the browser on the terminal and returns the final selection.
func Run(list events.Events, st storage.Store) (storage.Selection, error) {
	res, err := tea.NewProgram(New(list, st)).Run()
	if err != nil {
		return storage.Selection{}, err
	}
	if m, ok := res.(Model); ok {
		return m.Saved(), nil
	}
	return st.Load(), nil
}
