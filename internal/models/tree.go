package models

// DeletedProjectName is the display placeholder used for an archived memo
// whose owning project row no longer exists.
const DeletedProjectName = "deleted project"

// DeletedProjectColor is the neutral color used alongside DeletedProjectName.
const DeletedProjectColor = "#95a5a6"

// ProjectTree is a project with its owned memos and infos attached.
type ProjectTree struct {
	Project Project
	Infos   []Info
	Memos   []MemoTree
}

// MemoTree is a memo with its checklist details attached.
type MemoTree struct {
	Memo    Memo
	Details []Detail
}

// ArchivedMemo is an archived memo decorated with a denormalized reference
// to its owning project for display in the archive listing. The owner may
// itself be archived or already deleted.
type ArchivedMemo struct {
	MemoTree
	ProjectName  string
	ProjectColor string
}

// ArchiveTree holds the archive-view aggregation: archived projects with
// their full subtrees, and individually archived memos.
type ArchiveTree struct {
	Projects []ProjectTree
	Memos    []ArchivedMemo
}
