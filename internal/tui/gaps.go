package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"GapDesk/internal/domain"
	"GapDesk/internal/workflow"
)

// gapsScreen browses detected gaps, aggregate metrics and exports for a
// project that already has an analysis result.
type gapsScreen struct {
	project  domain.Project
	articles []domain.Article
	loaded   bool
	// metrics stays nil when the best-effort summary fetch fails; the cards
	// then render as "no metrics available".
	metrics  *domain.MetricsSummary
	cursor   int
	notice   string
	err      error
	gapModal *gapModal
	matrix   *matrixState
}

// gapModal shows the first gap record of an article. total carries the full
// record count so the truncation is visible.
type gapModal struct {
	title  string
	record domain.GapRecord
	total  int
}

type matrixState struct {
	loading bool
	rows    []domain.MatrixRow
}

func newGapsScreen(p domain.Project) *gapsScreen {
	return &gapsScreen{project: p}
}

func (m *Model) gapsKeys(msg tea.KeyMsg) tea.Cmd {
	s := m.gaps
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

	if s.gapModal != nil {
		switch msg.String() {
		case "esc", "enter", "q":
			s.gapModal = nil
		}
		return nil
	}

	if s.matrix != nil {
		switch msg.String() {
		case "esc", "q":
			s.matrix = nil
		case "p":
			s.notice = ""
			return m.downloadCmd(s.project.ID, "matrix PDF", m.deps.Exports.DownloadMatrixDocument)
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.articles)-1 {
			s.cursor++
		}
	case "enter", "g":
		if len(s.articles) == 0 {
			return nil
		}
		s.notice = ""
		return m.gapsForArticleCmd(s.articles[s.cursor])
	case "m":
		s.notice = ""
		s.matrix = &matrixState{loading: true}
		return tea.Batch(m.spinner.Tick, m.matrixCmd(s.project.ID))
	case "z":
		s.notice = ""
		return m.downloadCmd(s.project.ID, "metrics archive", m.deps.Exports.DownloadMetricsArchive)
	case "d":
		s.notice = ""
		return m.downloadCmd(s.project.ID, "dashboard PDF", m.deps.Exports.DownloadDashboard)
	case "esc", "b":
		return m.dispatch(workflow.ShowProjects{})
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) loadMetricsCmd(projectID string) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		metrics, found, err := m.deps.Gaps.MetricsSummary(context.Background(), projectID)
		if err != nil {
			if m.deps.Logger != nil {
				m.deps.Logger.Debug("metrics summary unavailable", "project", projectID, "error", err)
			}
			found = false
		}
		return metricsLoadedMsg{genStamp: stamp, metrics: metrics, found: found}
	}
}

func (m *Model) gapsForArticleCmd(a domain.Article) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		records, err := m.deps.Gaps.ArticleGaps(context.Background(), a.ID)
		return gapsLoadedMsg{genStamp: stamp, article: a, records: records, err: err}
	}
}

func (m *Model) matrixCmd(projectID string) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		rows, err := m.deps.Gaps.MatrixRows(context.Background(), projectID)
		return matrixLoadedMsg{genStamp: stamp, rows: rows, err: err}
	}
}

func (m *Model) downloadCmd(projectID, label string, fn func(context.Context, string) (string, error)) tea.Cmd {
	stamp := genStamp{m.gen}
	return func() tea.Msg {
		path, err := fn(context.Background(), projectID)
		if err == nil && m.deps.Ledger != nil {
			if lerr := m.deps.Ledger.RecordExport(context.Background(), projectID, filepath.Base(path)); lerr != nil && m.deps.Logger != nil {
				m.deps.Logger.Warn("ledger write failed", "project", projectID, "error", lerr)
			}
		}
		return downloadDoneMsg{genStamp: stamp, label: label, path: path, err: err}
	}
}

func (m *Model) onGapsLoaded(msg gapsLoadedMsg) tea.Cmd {
	s := m.gaps
	if s == nil {
		return nil
	}
	if msg.err != nil {
		s.err = msg.err
		return nil
	}
	if len(msg.records) == 0 {
		s.notice = "No gaps detected for this article."
		return nil
	}
	title := msg.article.Title
	if title == "" {
		title = "Gap"
	}
	s.gapModal = &gapModal{title: title, record: msg.records[0], total: len(msg.records)}
	return nil
}

func (m *Model) onMetricsLoaded(msg metricsLoadedMsg) tea.Cmd {
	s := m.gaps
	if s == nil || !msg.found {
		return nil
	}
	metrics := msg.metrics
	s.metrics = &metrics
	return nil
}

func (m *Model) onMatrixLoaded(msg matrixLoadedMsg) tea.Cmd {
	s := m.gaps
	if s == nil || s.matrix == nil {
		return nil
	}
	if msg.err != nil {
		// Close the modal: after the error is dismissed it must not linger
		// showing an empty matrix.
		s.matrix = nil
		s.err = msg.err
		return nil
	}
	s.matrix.loading = false
	s.matrix.rows = msg.rows
	return nil
}

func (m *Model) onDownloadDone(msg downloadDoneMsg) tea.Cmd {
	s := m.gaps
	if s == nil {
		return nil
	}
	if msg.err != nil {
		s.err = msg.err
		return nil
	}
	s.notice = fmt.Sprintf("Saved %s to %s", msg.label, msg.path)
	return nil
}

func (m *Model) gapsView() string {
	s := m.gaps
	if s == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + m.styles.Title.Render("Detected gaps — "+s.project.Topic) + "\n\n")

	b.WriteString("  " + m.metricsCards() + "\n\n")

	if !s.loaded {
		b.WriteString("  " + m.spinner.View() + " Loading articles…\n")
	} else if len(s.articles) == 0 {
		b.WriteString("  " + m.styles.Dim.Render("No articles.") + "\n")
	} else {
		b.WriteString("  " + m.styles.Header.Render(fmt.Sprintf("%-48s %s", "Article title", "DOI")) + "\n")
		for i, a := range s.articles {
			title := a.Title
			if title == "" {
				title = "(no title)"
			}
			line := fmt.Sprintf("%-48s %s", truncate(title, 48), orDash(a.DOI))
			if i == s.cursor {
				line = m.styles.Selected.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString("  " + line + "\n")
		}
	}

	if s.notice != "" {
		b.WriteString("\n  " + m.styles.Warn.Render(s.notice) + "\n")
	}

	b.WriteString("\n  " + m.styles.Help.Render("enter: view gaps • m: matrix • z: metrics ZIP • d: dashboard PDF • esc: back"))
	return b.String()
}

func (m *Model) metricsCards() string {
	s := m.gaps
	if s.metrics == nil {
		return m.styles.Dim.Render("No metrics available.")
	}
	card := func(name, value string) string {
		return m.styles.Modal.Render(m.styles.Dim.Render(name) + "\n" + m.styles.Title.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Avg entropy", fmtScore(s.metrics.AvgEntropy)), " ",
		card("Avg similarity", fmtScore(s.metrics.AvgSimilarity)), " ",
		card("Validation score", fmtScore(s.metrics.AvgValidationScore)),
	)
}

func (m *Model) gapModalView() string {
	gm := m.gaps.gapModal
	r := gm.record

	header := m.styles.Title.Render(truncate(gm.title, 70))
	if gm.total > 1 {
		header += m.styles.Dim.Render(fmt.Sprintf("  (1 of %d)", gm.total))
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")
	b.WriteString(m.styles.Dim.Render("Gap type") + "\n" + r.GapType + "\n\n")
	b.WriteString(m.styles.Dim.Render("Gap") + "\n" + wrap(r.Gap, 72) + "\n\n")
	b.WriteString(m.styles.Dim.Render("Innovation opportunity") + "\n" + wrap(r.Opportunity, 72) + "\n\n")
	b.WriteString(m.styles.Dim.Render("Avg similarity ") + fmtScore(r.AvgSimilarity))
	b.WriteString(m.styles.Dim.Render("   Entropy (bits) ") + fmtScore(r.Entropy))
	b.WriteString(m.styles.Dim.Render("   Validation ") + fmtScore(r.ValidationScore))
	b.WriteString(m.styles.Dim.Render("   Status ") + r.ValidationStatus + "\n")
	if r.ValidationReason != "" {
		b.WriteString("\n" + m.styles.Dim.Render("Reason") + "\n" + wrap(r.ValidationReason, 72) + "\n")
	}
	b.WriteString("\n" + m.styles.Help.Render("esc: close"))
	return m.styles.Modal.Render(b.String())
}

func (m *Model) matrixModalView() string {
	mx := m.gaps.matrix

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Gap matrix (Article • DOI • Gap • Opportunity)") + "\n\n")

	switch {
	case mx.loading:
		b.WriteString(m.spinner.View() + " Loading matrix…\n")
	case len(mx.rows) == 0:
		b.WriteString(m.styles.Dim.Render("No data for the matrix.") + "\n")
	default:
		b.WriteString(m.styles.Header.Render(fmt.Sprintf("%-28s %-18s %-30s %s", "Article", "DOI", "Gap", "Opportunity")) + "\n")
		for _, row := range mx.rows {
			b.WriteString(fmt.Sprintf("%-28s %-18s %-30s %s\n",
				truncate(row.Title, 28), truncate(orDash(row.DOI), 18),
				truncate(row.Gap, 30), truncate(row.Opportunity, 30)))
		}
	}

	b.WriteString("\n" + m.styles.Help.Render("p: download PDF • esc: close"))
	return m.styles.Modal.Render(b.String())
}
