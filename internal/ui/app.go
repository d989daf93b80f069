package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pctl/internal/state"
	"pctl/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewMemos
)

type App struct {
	mgr         *state.Manager
	currentView View
	projectList *views.ProjectListView
	memoList    *views.MemoListView
	width       int
	height      int
}

// Creates a new application
func NewApp(mgr *state.Manager) *App {
	return &App{
		mgr:         mgr,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(mgr),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the project that was selected last time
	if id := a.mgr.SelectedProject(); id != "" {
		if _, ok := a.mgr.Project(id); ok {
			return a.openProject(id)
		}
	}

	return a.projectList.Init()
}

func (a *App) openProject(id string) tea.Cmd {
	a.currentView = ViewMemos
	a.memoList = views.NewMemoListView(a.mgr, id)
	a.mgr.SelectProject(id)

	return tea.Batch(
		a.memoList.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(msg)

	case views.SelectedProject:
		return a, a.openProject(msg.ProjectID)

	case views.BackToProjects:
		a.currentView = ViewProjects
		a.mgr.SelectProject("")
		return a, tea.Batch(
			a.projectList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewMemos:
		_, cmd = a.memoList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewMemos:
		if a.memoList != nil {
			return a.memoList.View()
		}
	}
	return a.projectList.View()
}
