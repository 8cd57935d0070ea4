package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"GapDesk/internal/infrastructure/api"
	"GapDesk/internal/ports"
	"GapDesk/internal/usecase"
	"GapDesk/internal/workflow"
)

// Deps wires all backend collaborators into the TUI.
type Deps struct {
	Projects ports.ProjectDirectory
	Articles ports.ArticleSource
	Results  ports.ResultSource
	Gaps     ports.GapSource
	Exports  ports.Exporter
	Ledger   ports.Ledger
	Logger   *slog.Logger
}

// Model is the root Bubble Tea model. It threads the pure workflow state
// through every navigation event and keeps one screen value per stage;
// mounting a stage replaces that value, which resets the stage's overlay and
// error holders.
type Model struct {
	deps    Deps
	summary *usecase.Summary
	styles  Styles
	spinner spinner.Model

	state  workflow.State
	width  int
	height int

	// gen is bumped on every mount; async responses stamped with an older
	// value arrived for a screen that no longer exists and are dropped.
	gen uint64

	list   *listScreen
	create *createScreen
	upload *uploadScreen
	gaps   *gapsScreen
}

// New builds the root model starting at the welcome screen.
func New(deps Deps) *Model {
	styles := DefaultStyles()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Selected

	return &Model{
		deps: deps,
		summary: usecase.NewSummary(usecase.SummaryDeps{
			Projects: deps.Projects,
			Articles: deps.Articles,
			Results:  deps.Results,
			Logger:   deps.Logger,
		}),
		styles:  styles,
		spinner: s,
		state:   workflow.Initial(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)

	case spinner.TickMsg:
		if !m.spinning() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if stamped, ok := msg.(generational); ok && stamped.generation() != m.gen {
		return m, nil
	}

	switch msg := msg.(type) {
	case summaryLoadedMsg:
		return m, m.onSummaryLoaded(msg)
	case projectCheckedMsg:
		return m, m.onProjectChecked(msg)
	case resultTextMsg:
		return m, m.onResultText(msg)
	case projectCreatedMsg:
		return m, m.onProjectCreated(msg)
	case articlesLoadedMsg:
		return m, m.onArticlesLoaded(msg)
	case uploadDoneMsg:
		return m, m.onUploadDone(msg)
	case analyzeDoneMsg:
		return m, m.onAnalyzeDone(msg)
	case analyzePhaseMsg:
		return m, m.onAnalyzePhase()
	case gapsLoadedMsg:
		return m, m.onGapsLoaded(msg)
	case metricsLoadedMsg:
		return m, m.onMetricsLoaded(msg)
	case matrixLoadedMsg:
		return m, m.onMatrixLoaded(msg)
	case downloadDoneMsg:
		return m, m.onDownloadDone(msg)
	}

	return m, nil
}

// dispatch runs one navigation event through the pure reducer and mounts the
// destination screen when the stage changes.
func (m *Model) dispatch(event workflow.Event) tea.Cmd {
	next := workflow.Reduce(m.state, event)
	if next == m.state {
		return nil
	}
	prev := m.state.Stage
	m.state = next
	m.logNav(prev, next.Stage)
	return m.mount(next.Stage)
}

// mount constructs a fresh screen value for the stage. Overlay and error
// state live on the screen value, so this is also what clears them.
func (m *Model) mount(stage workflow.Stage) tea.Cmd {
	m.gen++
	m.list, m.create, m.upload, m.gaps = nil, nil, nil, nil

	switch stage {
	case workflow.StageProjectList:
		m.list = &listScreen{loading: true}
		return tea.Batch(m.spinner.Tick, m.loadSummaryCmd())

	case workflow.StageCreateProject:
		m.create = newCreateScreen()
		return m.create.focusCmd()

	case workflow.StageUploadArticles:
		m.upload = newUploadScreen(*m.state.Project)
		return tea.Batch(m.spinner.Tick, m.loadArticlesCmd(m.upload.project.ID))

	case workflow.StageGapsAndExports:
		m.gaps = newGapsScreen(*m.state.Project)
		return tea.Batch(m.spinner.Tick, m.loadArticlesCmd(m.gaps.project.ID), m.loadMetricsCmd(m.gaps.project.ID))
	}

	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state.Stage {
	case workflow.StageWelcome:
		return m.welcomeKeys(msg)
	case workflow.StageProjectList:
		return m.listKeys(msg)
	case workflow.StageCreateProject:
		return m.createKeys(msg)
	case workflow.StageUploadArticles:
		return m.uploadKeys(msg)
	case workflow.StageGapsAndExports:
		return m.gapsKeys(msg)
	}
	return nil
}

func (m *Model) welcomeKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "s", "enter":
		return m.dispatch(workflow.StartCreate{})
	case "l", "p":
		return m.dispatch(workflow.ShowProjects{})
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) spinning() bool {
	switch {
	case m.list != nil:
		return m.list.loading || m.list.checking
	case m.create != nil:
		return m.create.busy
	case m.upload != nil:
		return m.upload.busy || !m.upload.loaded
	case m.gaps != nil:
		return !m.gaps.loaded || (m.gaps.matrix != nil && m.gaps.matrix.loading)
	}
	return false
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.state.Stage {
	case workflow.StageWelcome:
		body = m.welcomeView()
	case workflow.StageProjectList:
		body = m.listView()
	case workflow.StageCreateProject:
		body = m.createView()
	case workflow.StageUploadArticles:
		body = m.uploadView()
	case workflow.StageGapsAndExports:
		body = m.gapsView()
	}

	if modal := m.modalView(); modal != "" {
		return m.center(modal)
	}
	return body
}

// modalView returns the active blocking surface: a busy overlay or an error
// modal, overlay first since it also blocks error dismissal.
func (m *Model) modalView() string {
	if m.upload != nil && m.upload.busy && m.upload.overlayText != "" {
		return m.styles.Overlay.Render(m.spinner.View() + " " + m.upload.overlayText)
	}
	if err := m.currentErr(); err != nil {
		return m.errView(err)
	}
	if m.list != nil && m.list.resultModal != nil {
		return m.resultModalView()
	}
	if m.gaps != nil && m.gaps.gapModal != nil {
		return m.gapModalView()
	}
	if m.gaps != nil && m.gaps.matrix != nil {
		return m.matrixModalView()
	}
	return ""
}

func (m *Model) currentErr() error {
	switch {
	case m.list != nil:
		return m.list.err
	case m.create != nil:
		return m.create.err
	case m.upload != nil:
		return m.upload.err
	case m.gaps != nil:
		return m.gaps.err
	}
	return nil
}

func (m *Model) errView(err error) string {
	var b strings.Builder
	b.WriteString(m.styles.Warn.Render("Something went wrong") + "\n\n")
	b.WriteString(err.Error())

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) && reqErr.Detail != nil {
		if dump, jerr := json.MarshalIndent(reqErr.Detail, "", "  "); jerr == nil {
			b.WriteString("\n\n" + m.styles.Dim.Render(string(dump)))
		}
	}

	b.WriteString("\n\n" + m.styles.Help.Render("esc: dismiss"))
	return m.styles.ErrModal.Render(b.String())
}

func (m *Model) welcomeView() string {
	title := m.styles.Title.Render("GapDesk")
	sub := m.styles.Subtitle.Render("Research gap analysis for your article collections")
	help := m.styles.Help.Render("s: start a new topic • l: project list • q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, "", "  "+title, "  "+sub, "", "  "+help)
}

func (m *Model) center(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) logNav(from, to workflow.Stage) {
	if m.deps.Logger != nil {
		m.deps.Logger.Info("stage change", "from", from.String(), "to", to.String())
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func fmtScore(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
