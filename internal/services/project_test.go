package services

import (
	"testing"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
)

func TestProjectCreateGrantsOwnership(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "alice")
	svc := NewProjectService(db)

	project, err := svc.Create(&CreateProjectRequest{Name: "Web App"}, user.ID)
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	role, err := NewAccessService(db).ResolveRole(project.ID, user.ID)
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role != models.RoleOwner {
		t.Errorf("creator should be OWNER, got %q", role)
	}
}

func TestProjectListOnlyMemberships(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedProject(t, db, alice, "Alice's")
	shared := seedProject(t, db, bob, "Shared")
	seedMember(t, db, shared, alice, models.RoleContributor)
	seedProject(t, db, bob, "Bob's only")
	svc := NewProjectService(db)

	projects, err := svc.List(alice.ID)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("alice should see 2 projects, got %d", len(projects))
	}
	for _, p := range projects {
		if p.Name == "Bob's only" {
			t.Error("alice should not see projects she is not a member of")
		}
	}
}

func TestProjectGetMemberGated(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	outsider := seedUser(t, db, "eve")
	project := seedProject(t, db, owner, "Web App")
	svc := NewProjectService(db)

	if _, err := svc.Get(project.ID, owner.ID); err != nil {
		t.Fatalf("member get: %v", err)
	}

	_, err := svc.Get(project.ID, outsider.ID)
	assertForbidden(t, err)
}

func TestProjectUpdateOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	contributor := seedUser(t, db, "bob")
	project := seedProject(t, db, owner, "Old Name")
	seedMember(t, db, project, contributor, models.RoleContributor)
	svc := NewProjectService(db)

	updated, err := svc.Update(project.ID, owner.ID, &UpdateProjectRequest{Name: "New Name"})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("expected renamed project, got %q", updated.Name)
	}

	_, err = svc.Update(project.ID, contributor.ID, &UpdateProjectRequest{Name: "Nope"})
	assertForbidden(t, err)
}

func TestProjectDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, "Web App")
	tc := seedCase(t, db, project, "Login works")

	runSvc := NewRunService(db)
	if _, err := runSvc.Create(project.ID, owner.ID, "Release run"); err != nil {
		t.Fatalf("create run: %v", err)
	}
	comment := models.Comment{TestCaseID: tc.ID, UserID: owner.ID, Body: "flaky on staging"}
	if err := db.Create(&comment).Error; err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	svc := NewProjectService(db)
	if err := svc.Delete(project.ID, owner.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	for name, model := range map[string]interface{}{
		"projects":        &models.Project{},
		"project_members": &models.ProjectMember{},
		"test_cases":      &models.TestCase{},
		"test_runs":       &models.TestRun{},
		"test_results":    &models.TestResult{},
		"comments":        &models.Comment{},
	} {
		var count int64
		db.Model(model).Count(&count)
		if count != 0 {
			t.Errorf("%s should be empty after project delete, got %d rows", name, count)
		}
	}
}

func TestProjectDeleteContributorForbidden(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	contributor := seedUser(t, db, "bob")
	project := seedProject(t, db, owner, "Web App")
	seedMember(t, db, project, contributor, models.RoleContributor)
	svc := NewProjectService(db)

	err := svc.Delete(project.ID, contributor.ID)
	assertForbidden(t, err)
}

func TestListMembersOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	contributor := seedUser(t, db, "bob")
	project := seedProject(t, db, owner, "Web App")
	seedMember(t, db, project, contributor, models.RoleContributor)
	svc := NewProjectService(db)

	members, err := svc.ListMembers(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner list members: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 members, got %d", len(members))
	}

	_, err = svc.ListMembers(project.ID, contributor.ID)
	assertForbidden(t, err)
}
