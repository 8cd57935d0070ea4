package tui

import "GapDesk/internal/domain"

// genStamp ties an async message to the screen mount that issued its
// command. The root model's generation counter is bumped on every mount;
// responses stamped with an older generation are dropped on arrival, so a
// reply that outlives a navigation can never land on the wrong screen.
type genStamp struct{ gen uint64 }

func (s genStamp) generation() uint64 { return s.gen }

type generational interface{ generation() uint64 }

// Messages produced by async commands.
type (
	summaryLoadedMsg struct {
		genStamp
		rows []domain.ProjectSummaryRow
		err  error
	}

	// projectCheckedMsg resolves the guarded selection of a project. A
	// failed check arrives as hasResult=false, never as an error.
	projectCheckedMsg struct {
		genStamp
		project   domain.Project
		hasResult bool
	}

	resultTextMsg struct {
		genStamp
		topic  string
		result domain.AnalysisResult
		found  bool
		err    error
	}

	projectCreatedMsg struct {
		genStamp
		err error
	}

	articlesLoadedMsg struct {
		genStamp
		articles []domain.Article
		err      error
	}

	uploadDoneMsg struct {
		genStamp
		err error
	}

	analyzeDoneMsg struct {
		genStamp
		err error
	}

	// analyzePhaseMsg flips the overlay text to its second phase. Cosmetic:
	// the backend round trip is a single blocking request.
	analyzePhaseMsg struct {
		genStamp
	}

	gapsLoadedMsg struct {
		genStamp
		article domain.Article
		records []domain.GapRecord
		err     error
	}

	metricsLoadedMsg struct {
		genStamp
		metrics domain.MetricsSummary
		found   bool
	}

	matrixLoadedMsg struct {
		genStamp
		rows []domain.MatrixRow
		err  error
	}

	downloadDoneMsg struct {
		genStamp
		label string
		path  string
		err   error
	}
)
