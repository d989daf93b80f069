package views

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pctl/internal/models"
	"pctl/internal/state"
	"pctl/internal/ui/keys"
	"pctl/internal/ui/styles"
)

// RefreshDone reports the outcome of a background refresh
type RefreshDone struct {
	Err error
}

// SelectedProject is emitted when the user opens a project
type SelectedProject struct {
	ProjectID string
}

// Refresh re-fetches the tree off the UI loop
func Refresh(mgr *state.Manager) tea.Cmd {
	return func() tea.Msg {
		return RefreshDone{Err: mgr.Refresh(context.Background())}
	}
}

type projectItem struct {
	project *models.ProjectTree
	catName string
}

func (i projectItem) Title() string       { return i.project.Project.Name }
func (i projectItem) Description() string { return i.project.Project.Description }
func (i projectItem) FilterValue() string { return i.project.Project.Name }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	titleStyle := d.styles.ListItem.Width(width)
	metaStyle := d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		metaStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	if !selected && p.project.Project.Color != "" {
		titleStyle = titleStyle.Foreground(lipgloss.Color(p.project.Project.Color))
	}
	title := titleStyle.Render(p.project.Project.Name)

	meta := fmt.Sprintf("%d%% · %d memo(s)", state.Progress(p.project), len(p.project.Memos))
	if p.catName != "" {
		meta += " · " + p.catName
	}

	fmt.Fprintf(w, "%s\n%s", title, metaStyle.Render(meta))
}

// ProjectListView shows every active project with its completion
type ProjectListView struct {
	mgr      *state.Manager
	list     list.Model
	delegate *projectDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	err      error
}

func NewProjectListView(mgr *state.Manager) *ProjectListView {
	s := styles.NewStyles()

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		mgr:      mgr,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	v.reload()
	return nil
}

// reload rebuilds the list items from the manager's current tree
func (v *ProjectListView) reload() {
	catNames := make(map[string]string)
	for _, c := range v.mgr.Categories() {
		catNames[c.ID] = c.Name
	}

	tree := v.mgr.Tree()
	items := make([]list.Item, len(tree))
	for i, p := range tree {
		name := ""
		if p.Project.CategoryID != nil {
			name = catNames[*p.Project.CategoryID]
		}
		items[i] = projectItem{project: p, catName: name}
	}
	v.list.SetItems(items)
	v.loaded = true
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case RefreshDone:
		v.err = msg.Err
		v.reload()
		return v, nil

	case tea.KeyMsg:
		if v.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Refresh):
			return v, Refresh(v.mgr)
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				id := item.project.Project.ID
				return v, func() tea.Msg {
					return SelectedProject{ProjectID: id}
				}
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) View() string {
	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	if v.err != nil {
		content = v.styles.Error.Render("refresh failed: "+v.err.Error()) + "\n" + content
	}
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Projects"),
		"",
		s.TitleMuted.Render("Create one with \"pctl project create\""),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s open • %s refresh • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
