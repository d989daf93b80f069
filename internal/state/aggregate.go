package state

import (
	"pctl/internal/models"
)

// Aggregate joins the flat row collections into the active project tree.
//
// Each project gets the infos and memos whose foreign key points at it, and
// each memo gets its details. Archived projects and archived memos are
// excluded. Rows whose owner is missing are dropped silently; the join never
// reports an orphan. The result is a pure function of the inputs and
// preserves their relative ordering, so callers control display order by how
// they fetch.
func Aggregate(projects []models.Project, infos []models.Info, memos []models.Memo, details []models.Detail) []*models.ProjectTree {
	detailsByMemo := groupDetails(details)
	infosByProject := make(map[string][]models.Info)
	for _, info := range infos {
		infosByProject[info.ProjectID] = append(infosByProject[info.ProjectID], info)
	}
	memosByProject := make(map[string][]models.MemoTree)
	for _, memo := range memos {
		if memo.Archived {
			continue
		}
		memosByProject[memo.ProjectID] = append(memosByProject[memo.ProjectID], models.MemoTree{
			Memo:    memo,
			Details: detailsByMemo[memo.ID],
		})
	}

	tree := make([]*models.ProjectTree, 0, len(projects))
	for _, project := range projects {
		if project.Archived {
			continue
		}
		tree = append(tree, &models.ProjectTree{
			Project: project,
			Infos:   infosByProject[project.ID],
			Memos:   memosByProject[project.ID],
		})
	}
	return tree
}

// AggregateArchive builds the archive view: archived projects with their
// full subtrees, and archived memos decorated with the owning project's name
// and color. A memo whose project row no longer resolves gets the
// deleted-project placeholder.
func AggregateArchive(projects []models.Project, infos []models.Info, memos []models.Memo, details []models.Detail) *models.ArchiveTree {
	detailsByMemo := groupDetails(details)
	infosByProject := make(map[string][]models.Info)
	for _, info := range infos {
		infosByProject[info.ProjectID] = append(infosByProject[info.ProjectID], info)
	}
	memosByProject := make(map[string][]models.MemoTree)
	for _, memo := range memos {
		memosByProject[memo.ProjectID] = append(memosByProject[memo.ProjectID], models.MemoTree{
			Memo:    memo,
			Details: detailsByMemo[memo.ID],
		})
	}
	projectByID := make(map[string]models.Project, len(projects))
	for _, project := range projects {
		projectByID[project.ID] = project
	}

	archive := &models.ArchiveTree{}

	for _, project := range projects {
		if !project.Archived {
			continue
		}
		archive.Projects = append(archive.Projects, models.ProjectTree{
			Project: project,
			Infos:   infosByProject[project.ID],
			Memos:   memosByProject[project.ID],
		})
	}

	for _, memo := range memos {
		if !memo.Archived {
			continue
		}
		entry := models.ArchivedMemo{
			MemoTree: models.MemoTree{
				Memo:    memo,
				Details: detailsByMemo[memo.ID],
			},
			ProjectName:  models.DeletedProjectName,
			ProjectColor: models.DeletedProjectColor,
		}
		if owner, ok := projectByID[memo.ProjectID]; ok {
			entry.ProjectName = owner.Name
			entry.ProjectColor = owner.Color
		}
		archive.Memos = append(archive.Memos, entry)
	}

	return archive
}

func groupDetails(details []models.Detail) map[string][]models.Detail {
	byMemo := make(map[string][]models.Detail)
	for _, detail := range details {
		byMemo[detail.MemoID] = append(byMemo[detail.MemoID], detail)
	}
	return byMemo
}
