package termview

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/patient"
)

type resultMsg patient.SearchResult

// searchModel is a single search box. Keystrokes go to onInput; settled
// results arrive as resultMsg.
type searchModel struct {
	input    textinput.Model
	onInput  func(string)
	query    string
	patients []appointment.Patient
	err      error
	pending  bool
}

func newSearchModel(onInput func(string)) searchModel {
	ti := textinput.New()
	ti.Placeholder = "name, phone or date of birth"
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Focus()
	return searchModel{input: ti, onInput: onInput}
}

func (m searchModel) Init() tea.Cmd { return textinput.Blink }

func (m searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		}
	case resultMsg:
		// A result for text the user has since changed is dropped.
		if msg.Query != m.input.Value() {
			return m, nil
		}
		m.pending = false
		m.query = msg.Query
		m.patients = msg.Patients
		m.err = msg.Err
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.pending = strings.TrimSpace(after) != ""
		if !m.pending {
			m.patients, m.err, m.query = nil, nil, ""
		}
		m.onInput(after)
	}
	return m, cmd
}

func (m searchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Find patient"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Render(m.err.Error()))
		b.WriteString("\n")
	case m.pending:
		b.WriteString(hintStyle.Render("searching…") + "\n")
	case m.query != "":
		b.WriteString(Patients(m.patients))
	}

	b.WriteString("\n" + hintStyle.Render("enter/esc: quit"))
	return frame.Render(b.String())
}

// RunPatientSearch runs an interactive search box until the user quits.
// Searches fire only after typing pauses for delay.
func RunPatientSearch(ctx context.Context, svc patient.Service, delay time.Duration, in io.Reader, out io.Writer) error {
	var live *patient.LiveSearch
	m := newSearchModel(func(text string) { live.Input(text) })

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	live = patient.NewLiveSearch(ctx, svc, delay, func(r patient.SearchResult) {
		p.Send(resultMsg(r))
	})
	defer live.Close()

	_, err := p.Run()
	return err
}
