package state

import (
	"reflect"
	"testing"

	"pctl/internal/models"
)

func TestAggregateJoinsChildrenToOwners(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "Alpha"},
		{ID: "p2", Name: "Beta"},
	}
	infos := []models.Info{
		{ID: "i1", ProjectID: "p1", Type: models.InfoURL, Label: "docs"},
		{ID: "i2", ProjectID: "ghost", Type: models.InfoNote, Label: "orphan"},
	}
	memos := []models.Memo{
		{ID: "m1", ProjectID: "p1", Title: "First"},
		{ID: "m2", ProjectID: "p1", Title: "Second"},
		{ID: "m3", ProjectID: "ghost", Title: "Orphan"},
	}
	details := []models.Detail{
		{ID: "d1", MemoID: "m1", Content: "a"},
		{ID: "d2", MemoID: "m1", Content: "b"},
		{ID: "d3", MemoID: "m2", Content: "c"},
		{ID: "d4", MemoID: "ghost", Content: "orphan"},
	}

	tree := Aggregate(projects, infos, memos, details)

	if len(tree) != 2 {
		t.Fatalf("tree size = %d, want 2", len(tree))
	}
	alpha := tree[0]
	if alpha.Project.ID != "p1" {
		t.Fatalf("tree[0] = %s, want p1", alpha.Project.ID)
	}
	if len(alpha.Infos) != 1 || alpha.Infos[0].ID != "i1" {
		t.Fatalf("alpha infos = %v", alpha.Infos)
	}
	if len(alpha.Memos) != 2 {
		t.Fatalf("alpha memos = %d, want 2", len(alpha.Memos))
	}
	if len(alpha.Memos[0].Details) != 2 || len(alpha.Memos[1].Details) != 1 {
		t.Fatal("details attached to wrong memos")
	}

	beta := tree[1]
	if len(beta.Infos) != 0 || len(beta.Memos) != 0 {
		t.Fatal("beta should be empty")
	}
}

func TestAggregateExcludesArchivedRows(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "Live"},
		{ID: "p2", Name: "Shelved", Archived: true},
	}
	memos := []models.Memo{
		{ID: "m1", ProjectID: "p1", Title: "Live memo"},
		{ID: "m2", ProjectID: "p1", Title: "Shelved memo", Archived: true},
	}

	tree := Aggregate(projects, nil, memos, nil)

	if len(tree) != 1 || tree[0].Project.ID != "p1" {
		t.Fatalf("tree = %v, want only p1", tree)
	}
	if len(tree[0].Memos) != 1 || tree[0].Memos[0].Memo.ID != "m1" {
		t.Fatal("archived memo leaked into active view")
	}
}

func TestAggregatePreservesInputOrder(t *testing.T) {
	projects := []models.Project{
		{ID: "p3"}, {ID: "p1"}, {ID: "p2"},
	}
	memos := []models.Memo{
		{ID: "m2", ProjectID: "p1"},
		{ID: "m1", ProjectID: "p1"},
	}

	tree := Aggregate(projects, nil, memos, nil)

	gotProjects := []string{tree[0].Project.ID, tree[1].Project.ID, tree[2].Project.ID}
	if gotProjects[0] != "p3" || gotProjects[1] != "p1" || gotProjects[2] != "p2" {
		t.Fatalf("project order = %v", gotProjects)
	}
	p1 := tree[1]
	if p1.Memos[0].Memo.ID != "m2" || p1.Memos[1].Memo.ID != "m1" {
		t.Fatal("memo order not preserved")
	}
}

func TestAggregateArchiveKeepsFullSubtrees(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "Shelved", Archived: true},
	}
	memos := []models.Memo{
		{ID: "m1", ProjectID: "p1", Title: "Active child"},
		{ID: "m2", ProjectID: "p1", Title: "Archived child", Archived: true},
	}
	details := []models.Detail{
		{ID: "d1", MemoID: "m1"},
	}

	archive := AggregateArchive(projects, nil, memos, details)

	if len(archive.Projects) != 1 {
		t.Fatalf("archived projects = %d, want 1", len(archive.Projects))
	}
	// Both memos ride along under their archived project
	if len(archive.Projects[0].Memos) != 2 {
		t.Fatalf("subtree memos = %d, want 2", len(archive.Projects[0].Memos))
	}
	if len(archive.Projects[0].Memos[0].Details) != 1 {
		t.Fatal("details missing from archived subtree")
	}
}

func TestAggregateArchiveDecoratesMemosWithOwner(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "Alpha", Color: "#ff0000"},
	}
	memos := []models.Memo{
		{ID: "m1", ProjectID: "p1", Title: "Owned", Archived: true},
		{ID: "m2", ProjectID: "gone", Title: "Orphaned", Archived: true},
	}

	archive := AggregateArchive(projects, nil, memos, nil)

	if len(archive.Memos) != 2 {
		t.Fatalf("archived memos = %d, want 2", len(archive.Memos))
	}

	owned := archive.Memos[0]
	if owned.ProjectName != "Alpha" || owned.ProjectColor != "#ff0000" {
		t.Fatalf("owned memo decoration = %q/%q", owned.ProjectName, owned.ProjectColor)
	}

	orphaned := archive.Memos[1]
	if orphaned.ProjectName != models.DeletedProjectName {
		t.Fatalf("orphan name = %q, want placeholder", orphaned.ProjectName)
	}
	if orphaned.ProjectColor != models.DeletedProjectColor {
		t.Fatalf("orphan color = %q, want placeholder", orphaned.ProjectColor)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	projects := []models.Project{
		{ID: "p1", Name: "Alpha"},
		{ID: "p2", Name: "Beta", Archived: true},
	}
	infos := []models.Info{
		{ID: "i1", ProjectID: "p1", Type: models.InfoNote, Label: "note"},
	}
	memos := []models.Memo{
		{ID: "m1", ProjectID: "p1", Title: "First"},
		{ID: "m2", ProjectID: "p1", Title: "Parked", Archived: true},
		{ID: "m3", ProjectID: "p2", Title: "Shelved"},
	}
	details := []models.Detail{
		{ID: "d1", MemoID: "m1", Content: "a", Completed: true},
		{ID: "d2", MemoID: "m2", Content: "b"},
		{ID: "d3", MemoID: "m3", Content: "c"},
	}

	first := Aggregate(projects, infos, memos, details)
	second := Aggregate(projects, infos, memos, details)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated aggregation diverged:\n%+v\n%+v", first, second)
	}

	firstArchive := AggregateArchive(projects, infos, memos, details)
	secondArchive := AggregateArchive(projects, infos, memos, details)
	if !reflect.DeepEqual(firstArchive, secondArchive) {
		t.Fatalf("repeated archive aggregation diverged:\n%+v\n%+v", firstArchive, secondArchive)
	}
}
