package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"GapDesk/internal/domain"
	"GapDesk/internal/usecase"
	"GapDesk/internal/workflow"
)

// analyzePhaseAfter is when the overlay flips to its second phase while the
// analysis request is still in flight.
const analyzePhaseAfter = 4 * time.Second

// uploadScreen collects the project's document quota. busy is the single
// in-flight-operation lock: while set, uploads, analysis and navigation are
// all refused.
type uploadScreen struct {
	project   domain.Project
	gate      usecase.UploadGate
	loaded    bool
	pathInput textinput.Model
	prompting bool
	busy      bool
	// overlayText is non-empty only during batch analysis, which gets the
	// blocking overlay; single uploads just disable the controls.
	overlayText string
	err         error
}

func newUploadScreen(p domain.Project) *uploadScreen {
	ti := textinput.New()
	ti.Placeholder = "/path/to/article.pdf"
	ti.CharLimit = 500
	ti.Width = 60

	return &uploadScreen{
		project:   p,
		gate:      usecase.UploadGate{Target: p.TargetArticles},
		pathInput: ti,
	}
}

func (m *Model) uploadKeys(msg tea.KeyMsg) tea.Cmd {
	s := m.upload
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

	if s.prompting {
		switch msg.String() {
		case "esc":
			s.prompting = false
			s.pathInput.Blur()
			return nil
		case "enter":
			path := strings.TrimSpace(s.pathInput.Value())
			if path == "" {
				return nil
			}
			s.prompting = false
			s.pathInput.Blur()
			s.pathInput.SetValue("")
			s.busy = true
			return tea.Batch(m.spinner.Tick, m.uploadCmd(s.project.ID, path))
		}
		var cmd tea.Cmd
		s.pathInput, cmd = s.pathInput.Update(msg)
		return cmd
	}

	switch msg.String() {
	case "u":
		if s.gate.PendingSlots() == 0 {
			return nil
		}
		s.prompting = true
		return s.pathInput.Focus()
	case "a":
		if !s.gate.CanAnalyze() {
			return nil
		}
		s.busy = true
		s.overlayText = "Running article analysis…"
		stamp := genStamp{m.gen}
		return tea.Batch(
			m.spinner.Tick,
			m.analyzeCmd(s.project.ID),
			tea.Tick(analyzePhaseAfter, func(time.Time) tea.Msg { return analyzePhaseMsg{genStamp: stamp} }),
		)
	case "r":
		return m.loadArticlesCmd(s.project.ID)
	case "esc", "b":
		return m.dispatch(workflow.ShowProjects{})
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) loadArticlesCmd(projectID string) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		articles, err := m.deps.Articles.Articles(context.Background(), projectID)
		return articlesLoadedMsg{genStamp: stamp, articles: articles, err: err}
	}
}

func (m *Model) uploadCmd(projectID, path string) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		err := m.deps.Articles.UploadArticle(context.Background(), projectID, path)
		return uploadDoneMsg{genStamp: stamp, err: err}
	}
}

func (m *Model) analyzeCmd(projectID string) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		if err := m.deps.Results.AnalyzeAll(context.Background(), projectID); err != nil {
			return analyzeDoneMsg{genStamp: stamp, err: err}
		}
		if m.deps.Ledger != nil {
			if err := m.deps.Ledger.RecordAnalysis(context.Background(), projectID); err != nil && m.deps.Logger != nil {
				m.deps.Logger.Warn("ledger write failed", "project", projectID, "error", err)
			}
		}
		return analyzeDoneMsg{genStamp: stamp}
	}
}

// onArticlesLoaded refreshes whichever project-scoped screen is current.
func (m *Model) onArticlesLoaded(msg articlesLoadedMsg) tea.Cmd {
	switch {
	case m.upload != nil:
		s := m.upload
		s.loaded = true
		if msg.err != nil {
			s.gate.Articles = nil
			s.err = msg.err
			return nil
		}
		s.gate.Articles = msg.articles
	case m.gaps != nil:
		s := m.gaps
		s.loaded = true
		if msg.err != nil {
			s.articles = nil
			s.err = msg.err
			return nil
		}
		s.articles = msg.articles
	}
	return nil
}

func (m *Model) onUploadDone(msg uploadDoneMsg) tea.Cmd {
	s := m.upload
	if s == nil || !s.busy {
		return nil
	}
	s.busy = false
	if msg.err != nil {
		// No speculative row was added; the table is unchanged.
		s.err = msg.err
		return nil
	}
	// Reload so backend-extracted title/DOI stay authoritative.
	return m.loadArticlesCmd(s.project.ID)
}

func (m *Model) onAnalyzeDone(msg analyzeDoneMsg) tea.Cmd {
	s := m.upload
	if s == nil || !s.busy {
		return nil
	}
	s.busy = false
	s.overlayText = ""
	if msg.err != nil {
		s.err = msg.err
		return nil
	}
	return m.dispatch(workflow.AnalysisFinished{})
}

func (m *Model) onAnalyzePhase() tea.Cmd {
	s := m.upload
	if s != nil && s.busy && s.overlayText != "" {
		s.overlayText = "Done. Generating the state of the art…"
	}
	return nil
}

func (m *Model) uploadView() string {
	s := m.upload
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + m.styles.Title.Render("Upload articles") + "\n")
	b.WriteString("  " + m.styles.Subtitle.Render(fmt.Sprintf("Upload %d PDF articles for “%s”", s.gate.Target, s.project.Topic)) + "\n\n")

	if !s.loaded {
		b.WriteString("  " + m.spinner.View() + " Loading articles…\n")
	} else {
		b.WriteString("  " + m.styles.Header.Render(fmt.Sprintf("%-44s %-24s %s", "Article title", "DOI", "Status")) + "\n")
		for _, row := range s.gate.Rows() {
			if row == nil {
				b.WriteString("  " + m.styles.Dim.Render(fmt.Sprintf("%-44s %-24s %s", "Pending", "—", "—")) + "\n")
				continue
			}
			title := row.Title
			if title == "" {
				title = "(no title detected)"
			}
			line := fmt.Sprintf("%-44s %-24s ", truncate(title, 44), orDash(row.DOI))
			b.WriteString("  " + line + m.styles.Good.Render("loaded") + "\n")
		}
		b.WriteString("\n  " + m.styles.Dim.Render(fmt.Sprintf("Loaded: %d / %d", len(s.gate.Articles), s.gate.Target)) + "\n")
	}

	if s.busy && s.overlayText == "" {
		b.WriteString("\n  " + m.spinner.View() + " Uploading document…\n")
	}

	if s.prompting {
		b.WriteString("\n  " + m.styles.FieldName.Render("Path to PDF") + "\n")
		b.WriteString("  " + s.pathInput.View() + "\n")
		b.WriteString("  " + m.styles.Help.Render("enter: upload • esc: cancel"))
		return b.String()
	}

	help := "esc: back • q: quit"
	if s.gate.PendingSlots() > 0 {
		help = "u: upload PDF • " + help
	}
	if s.gate.CanAnalyze() {
		help = "a: analyze all • " + help
	}
	b.WriteString("\n  " + m.styles.Help.Render(help))
	return b.String()
}
