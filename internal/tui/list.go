package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"GapDesk/internal/domain"
	"GapDesk/internal/workflow"
)

// listScreen is the project list with its aggregated summary rows.
type listScreen struct {
	rows    []domain.ProjectSummaryRow
	loading bool
	// checking is set while the guarded selection check is in flight, so a
	// second selection cannot start before the first resolves.
	checking    bool
	cursor      int
	notice      string
	err         error
	resultModal *resultModal
}

// resultModal shows the body of a project's latest analysis result.
type resultModal struct {
	topic  string
	result domain.AnalysisResult
}

func (m *Model) listKeys(msg tea.KeyMsg) tea.Cmd {
	s := m.list
	if s == nil {
		return nil
	}

	if s.err != nil {
		switch msg.String() {
		case "esc", "enter":
			s.err = nil
		}
		return nil
	}

	if s.resultModal != nil {
		switch msg.String() {
		case "esc", "enter", "q":
			s.resultModal = nil
		}
		return nil
	}

	if s.loading || s.checking {
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.rows)-1 {
			s.cursor++
		}
	case "enter":
		if len(s.rows) == 0 {
			return nil
		}
		s.notice = ""
		s.checking = true
		return tea.Batch(m.spinner.Tick, m.checkProjectCmd(s.rows[s.cursor].Project))
	case "v":
		if len(s.rows) == 0 {
			return nil
		}
		s.notice = ""
		return m.viewResultCmd(s.rows[s.cursor].Project)
	case "n":
		return m.dispatch(workflow.StartCreate{})
	case "r":
		s.loading = true
		s.notice = ""
		return tea.Batch(m.spinner.Tick, m.loadSummaryCmd())
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) loadSummaryCmd() tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		rows, err := m.summary.Load(context.Background())
		return summaryLoadedMsg{genStamp: stamp, rows: rows, err: err}
	}
}

// checkProjectCmd is the selection guard: a best-effort lookup of the latest
// analysis result. Its own failure routes to the upload screen, never to the
// error modal.
func (m *Model) checkProjectCmd(p domain.Project) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		_, found, err := m.deps.Results.LatestResult(context.Background(), p.ID)
		if err != nil {
			if m.deps.Logger != nil {
				m.deps.Logger.Debug("result check failed", "project", p.ID, "error", err)
			}
			found = false
		}
		return projectCheckedMsg{genStamp: stamp, project: p, hasResult: found}
	}
}

func (m *Model) viewResultCmd(p domain.Project) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		result, found, err := m.deps.Results.LatestResult(context.Background(), p.ID)
		return resultTextMsg{genStamp: stamp, topic: p.Topic, result: result, found: found, err: err}
	}
}

func (m *Model) onSummaryLoaded(msg summaryLoadedMsg) tea.Cmd {
	s := m.list
	if s == nil || !s.loading {
		return nil
	}
	s.loading = false
	if msg.err != nil {
		s.rows = nil
		s.err = msg.err
		return nil
	}
	s.rows = msg.rows
	if s.cursor >= len(s.rows) {
		s.cursor = 0
	}
	return nil
}

func (m *Model) onProjectChecked(msg projectCheckedMsg) tea.Cmd {
	s := m.list
	if s == nil || !s.checking {
		return nil
	}
	s.checking = false
	return m.dispatch(workflow.ProjectChecked{Project: msg.project, HasResult: msg.hasResult})
}

func (m *Model) onResultText(msg resultTextMsg) tea.Cmd {
	s := m.list
	if s == nil {
		return nil
	}
	switch {
	case msg.err != nil:
		s.err = msg.err
	case !msg.found:
		s.notice = "No analysis result yet for this project."
	default:
		s.resultModal = &resultModal{topic: msg.topic, result: msg.result}
	}
	return nil
}

func (m *Model) listView() string {
	s := m.list
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + m.styles.Title.Render("Projects") + "\n")
	b.WriteString("  " + m.styles.Subtitle.Render("Upload at least 5 PDF articles with a DOI to generate a state of the art.") + "\n\n")

	switch {
	case s.loading:
		b.WriteString("  " + m.spinner.View() + " Loading projects…\n")
	case len(s.rows) == 0:
		b.WriteString("  " + m.styles.Dim.Render("No projects yet. Press n to create one.") + "\n")
	default:
		b.WriteString("  " + m.styles.Header.Render(fmt.Sprintf("%-40s %10s  %-14s", "Topic", "Articles", "Result")) + "\n")
		for i, row := range s.rows {
			status := m.styles.Dim.Render("pending")
			if row.HasResult {
				status = m.styles.Good.Render("generated")
			}
			line := fmt.Sprintf("%-40s %10d  %s", truncate(row.Project.Topic, 40), row.ArticleCount, status)
			if i == s.cursor {
				line = m.styles.Selected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString("  " + line + "\n")
		}
	}

	if s.checking {
		b.WriteString("\n  " + m.spinner.View() + " Opening project…\n")
	}
	if s.notice != "" {
		b.WriteString("\n  " + m.styles.Warn.Render(s.notice) + "\n")
	}

	b.WriteString("\n  " + m.styles.Help.Render("enter: open • v: view result • n: new • r: refresh • q: quit"))
	return b.String()
}

func (m *Model) resultModalView() string {
	rm := m.list.resultModal
	header := m.styles.Title.Render("State of the art — " + rm.topic)
	meta := m.styles.Dim.Render(fmt.Sprintf("version %d • %s", rm.result.Version, orDash(rm.result.CreatedAt)))
	body := wrap(rm.result.Text, 76)
	help := m.styles.Help.Render("esc: close")
	return m.styles.Modal.Render(lipgloss.JoinVertical(lipgloss.Left, header, meta, "", body, "", help))
}

// truncate shortens s to max runes. Topics are frequently Spanish, so byte
// indexing would cut accented characters in half.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// wrap is a crude word wrapper for modal body text.
func wrap(s string, width int) string {
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		if line > 0 && line+1+len(word) > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
