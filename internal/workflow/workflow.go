// Package workflow holds the pure stage machine behind the TUI. Transitions
// are a (State, Event) → State function with no I/O so routing can be tested
// without any rendering or network.
package workflow

import "GapDesk/internal/domain"

// Stage identifies one screen of the controller.
type Stage int

const (
	StageWelcome Stage = iota
	StageProjectList
	StageCreateProject
	StageUploadArticles
	StageGapsAndExports
)

func (s Stage) String() string {
	switch s {
	case StageWelcome:
		return "welcome"
	case StageProjectList:
		return "projects"
	case StageCreateProject:
		return "create"
	case StageUploadArticles:
		return "upload"
	case StageGapsAndExports:
		return "gaps"
	default:
		return "unknown"
	}
}

// State is the controller state threaded through Reduce. Project is set only
// while a project is selected.
type State struct {
	Stage   Stage
	Project *domain.Project
}

// Initial returns the boot state.
func Initial() State {
	return State{Stage: StageWelcome}
}

// Event is a navigation input to Reduce.
type Event interface{ isEvent() }

// StartCreate is the welcome-screen "start" action and the list's "new
// project" action.
type StartCreate struct{}

// ShowProjects navigates to the project list, clearing any selection. It is
// the explicit "back" of every project-scoped screen.
type ShowProjects struct{}

// ProjectCreated fires after a successful creation request.
type ProjectCreated struct{}

// CancelCreate abandons the creation form.
type CancelCreate struct{}

// ProjectChecked resolves the guarded selection: the existence check of the
// project's latest analysis result has completed and HasResult picks the
// destination screen.
type ProjectChecked struct {
	Project   domain.Project
	HasResult bool
}

// AnalysisFinished fires after a successful batch analysis.
type AnalysisFinished struct{}

func (StartCreate) isEvent()      {}
func (ShowProjects) isEvent()     {}
func (ProjectCreated) isEvent()   {}
func (CancelCreate) isEvent()     {}
func (ProjectChecked) isEvent()   {}
func (AnalysisFinished) isEvent() {}

// Reduce applies one event. Unexpected events for the current stage leave
// the state unchanged.
func Reduce(state State, event Event) State {
	switch ev := event.(type) {
	case StartCreate:
		if state.Stage == StageWelcome || state.Stage == StageProjectList {
			return State{Stage: StageCreateProject}
		}

	case ShowProjects:
		return State{Stage: StageProjectList}

	case ProjectCreated, CancelCreate:
		if state.Stage == StageCreateProject {
			return State{Stage: StageProjectList}
		}

	case ProjectChecked:
		if state.Stage != StageProjectList {
			return state
		}
		project := ev.Project
		if ev.HasResult {
			return State{Stage: StageGapsAndExports, Project: &project}
		}
		return State{Stage: StageUploadArticles, Project: &project}

	case AnalysisFinished:
		if state.Stage == StageUploadArticles {
			return State{Stage: StageProjectList}
		}
	}

	return state
}
