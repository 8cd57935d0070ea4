package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"GapDesk/internal/domain"
	"GapDesk/internal/workflow"
)

const (
	fieldTopic = iota
	fieldMethodology
	fieldObjective
	fieldSector
	fieldTarget
	fieldCount
)

const (
	targetMin     = 5
	targetMax     = 10
	targetDefault = 5
)

// createScreen is the project creation form. Only the topic is mandatory;
// the target count is clamped to [targetMin, targetMax] (backend bounds are
// not re-validated here — a rejection surfaces as the structured error and
// the form stays active).
type createScreen struct {
	inputs [fieldCount]textinput.Model
	focus  int
	hint   string
	busy   bool
	err    error
}

func newCreateScreen() *createScreen {
	s := &createScreen{}

	labels := [fieldCount]string{
		fieldTopic:       "e.g. Generative AI in education",
		fieldMethodology: "PRISMA / DSRM / Mixed",
		fieldObjective:   "Describe the main research objective…",
		fieldSector:      "Education / Health / Industry",
		fieldTarget:      strconv.Itoa(targetDefault),
	}
	for i := range s.inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 400
		ti.Width = 60
		s.inputs[i] = ti
	}
	s.inputs[fieldTarget].CharLimit = 2
	s.inputs[fieldTarget].Width = 4

	return s
}

func (s *createScreen) focusCmd() tea.Cmd {
	return s.inputs[s.focus].Focus()
}

func (s *createScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[s.focus].Focus()
}

func (m *Model) createKeys(msg tea.KeyMsg) tea.Cmd {
	s := m.create
	if s == nil || s.busy {
		return nil
	}

	if s.err != nil {
		switch msg.String() {
		case "esc", "enter":
			s.err = nil
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		return m.dispatch(workflow.CancelCreate{})
	case "tab", "down":
		return s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return m.submitCreate()
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

func (m *Model) submitCreate() tea.Cmd {
	s := m.create

	topic := strings.TrimSpace(s.inputs[fieldTopic].Value())
	if topic == "" {
		s.hint = "Topic is required."
		return s.setFocus(fieldTopic)
	}

	draft := domain.ProjectDraft{
		Topic:          topic,
		Methodology:    strings.TrimSpace(s.inputs[fieldMethodology].Value()),
		Sector:         strings.TrimSpace(s.inputs[fieldSector].Value()),
		Objective:      strings.TrimSpace(s.inputs[fieldObjective].Value()),
		TargetArticles: clampTarget(s.inputs[fieldTarget].Value()),
	}

	s.hint = ""
	s.busy = true
	return tea.Batch(m.spinner.Tick, m.createProjectCmd(draft))
}

func clampTarget(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return targetDefault
	}
	if n < targetMin {
		return targetMin
	}
	if n > targetMax {
		return targetMax
	}
	return n
}

func (m *Model) createProjectCmd(draft domain.ProjectDraft) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		_, err := m.deps.Projects.CreateProject(context.Background(), draft)
		return projectCreatedMsg{genStamp: stamp, err: err}
	}
}

func (m *Model) onProjectCreated(msg projectCreatedMsg) tea.Cmd {
	s := m.create
	if s == nil || !s.busy {
		return nil
	}
	s.busy = false
	if msg.err != nil {
		s.err = msg.err
		return nil
	}
	return m.dispatch(workflow.ProjectCreated{})
}

func (m *Model) createView() string {
	s := m.create
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + m.styles.Title.Render("Topic setup") + "\n")
	b.WriteString("  " + m.styles.Subtitle.Render("Enter the research topic details") + "\n\n")

	names := [fieldCount]string{
		fieldTopic:       "Main topic",
		fieldMethodology: "Methodology",
		fieldObjective:   "Research objective",
		fieldSector:      "Research sector",
		fieldTarget:      "Number of articles (5–10)",
	}
	for i := range s.inputs {
		b.WriteString("  " + m.styles.FieldName.Render(names[i]) + "\n")
		b.WriteString("  " + s.inputs[i].View() + "\n\n")
	}

	if s.hint != "" {
		b.WriteString("  " + m.styles.Warn.Render(s.hint) + "\n\n")
	}
	if s.busy {
		b.WriteString("  " + m.spinner.View() + " Creating project…\n\n")
	}

	b.WriteString("  " + m.styles.Help.Render("tab: next field • enter: create • esc: back"))
	return b.String()
}
