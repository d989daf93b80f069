package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pctl/internal/models"
	"pctl/internal/state"
	"pctl/internal/ui/keys"
	"pctl/internal/ui/styles"
	"pctl/internal/util"
)

// BackToProjects is emitted when the user leaves the memo view
type BackToProjects struct{}

// mutationDone reports the outcome of a background mutation. The manager
// already re-fetched on success, so the view only needs to rebuild its rows.
type mutationDone struct {
	err error
}

// A row is either a memo header or one of its details
type row struct {
	memo   *models.MemoTree
	detail *models.Detail
}

// MemoListView shows one project's memos with their checklists
type MemoListView struct {
	mgr       *state.Manager
	projectID string
	rows      []row
	cursor    int
	offset    int
	styles    *styles.Styles
	keys      keys.KeyMap
	width     int
	height    int
	err       error
}

func NewMemoListView(mgr *state.Manager, projectID string) *MemoListView {
	v := &MemoListView{
		mgr:       mgr,
		projectID: projectID,
		styles:    styles.NewStyles(),
		keys:      keys.DefaultKeyMap(),
	}
	v.reload()
	return v
}

func (v *MemoListView) Init() tea.Cmd {
	return nil
}

// reload flattens the project's memos and details into navigable rows
func (v *MemoListView) reload() {
	v.rows = v.rows[:0]

	project, ok := v.mgr.Project(v.projectID)
	if !ok {
		return
	}
	for i := range project.Memos {
		memo := &project.Memos[i]
		v.rows = append(v.rows, row{memo: memo})
		for j := range memo.Details {
			v.rows = append(v.rows, row{memo: memo, detail: &memo.Details[j]})
		}
	}
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (v *MemoListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case RefreshDone:
		v.err = msg.Err
		v.reload()
		return v, nil

	case mutationDone:
		v.err = msg.err
		v.reload()
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit

		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return BackToProjects{} }

		case key.Matches(msg, v.keys.Up):
			if v.cursor > 0 {
				v.cursor--
			}

		case key.Matches(msg, v.keys.Down):
			if v.cursor < len(v.rows)-1 {
				v.cursor++
			}

		case key.Matches(msg, v.keys.Refresh):
			return v, Refresh(v.mgr)

		case key.Matches(msg, v.keys.Toggle):
			if r := v.current(); r.detail != nil {
				id, done := r.detail.ID, r.detail.Completed
				// Flip locally right away; the manager reconciles on refresh
				r.detail.Completed = !done
				return v, func() tea.Msg {
					return mutationDone{err: v.mgr.ToggleDetail(context.Background(), v.projectID, id, !done)}
				}
			}

		case key.Matches(msg, v.keys.Archive):
			if r := v.current(); r.memo != nil && r.detail == nil {
				id := r.memo.Memo.ID
				return v, func() tea.Msg {
					return mutationDone{err: v.mgr.ArchiveMemo(context.Background(), v.projectID, id)}
				}
			}
		}
	}

	return v, nil
}

func (v *MemoListView) current() row {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return row{}
	}
	return v.rows[v.cursor]
}

func (v *MemoListView) View() string {
	s := v.styles

	project, ok := v.mgr.Project(v.projectID)
	if !ok {
		return s.TitleMuted.Render("Project is gone. Press esc to go back.")
	}

	header := s.Title.Render(project.Project.Name)
	header += s.Progress.Render(fmt.Sprintf("  %d%%", state.Progress(project)))
	if v.err != nil {
		header += "\n" + s.Error.Render(v.err.Error())
	}

	body := v.renderRows()
	if len(v.rows) == 0 {
		body = s.TitleMuted.Render("  No memos yet.")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, v.renderHelp())
	return styles.CenterView(content, v.width, v.height)
}

func (v *MemoListView) renderRows() string {
	s := v.styles
	visible := max(v.height-8, 1)

	if v.cursor < v.offset {
		v.offset = v.cursor
	}
	if v.cursor >= v.offset+visible {
		v.offset = v.cursor - visible + 1
	}

	var out string
	end := min(v.offset+visible, len(v.rows))
	for i := v.offset; i < end; i++ {
		r := v.rows[i]

		var line string
		if r.detail == nil {
			mark := ""
			if state.IsStale(r.memo.Memo, v.mgr.Now()) {
				mark = s.Stale.Render(" [stale]")
			}
			line = fmt.Sprintf("%s (%d%%)%s", r.memo.Memo.Title, state.MemoProgress(r.memo), mark)
		} else {
			completed := r.detail.Completed
			if o, ok := v.mgr.Override(r.detail.ID); ok {
				completed = o
			}
			box, style := "[ ]", s.Pending
			if completed {
				box, style = "[x]", s.Done
			}
			content := util.Truncate(r.detail.Content, max(styles.ContentWidth(v.width)-10, 20))
			line = "  " + style.Render(box+" "+content)
		}

		if i == v.cursor {
			out += s.ListSelected.Render(line) + "\n"
		} else {
			out += s.ListItem.Render(line) + "\n"
		}
	}
	return out
}

func (v *MemoListView) renderHelp() string {
	return v.styles.Help.Render(
		fmt.Sprintf("%s toggle • %s archive memo • %s refresh • %s back • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("a"),
			v.styles.HelpKey.Render("r"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}
