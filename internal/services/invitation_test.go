package services

import (
	"testing"
	"time"

	"github.com/Mohsintl/testersplaybook-app-sub000/internal/models"
)

func TestInvitationCreateOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	contributor := seedUser(t, db, "bob")
	project := seedProject(t, db, owner, "Web App")
	seedMember(t, db, project, contributor, models.RoleContributor)
	svc := NewInvitationService(db)

	inv, err := svc.Create(project.ID, owner.ID, &CreateInvitationRequest{Email: "new@example.com"})
	if err != nil {
		t.Fatalf("owner create invitation: %v", err)
	}
	if inv.Token == "" {
		t.Error("invitation token should be set")
	}
	if inv.Role != models.RoleContributor {
		t.Errorf("default role should be CONTRIBUTOR, got %s", inv.Role)
	}
	if !inv.ExpiresAt.After(time.Now()) {
		t.Error("invitation should expire in the future")
	}

	_, err = svc.Create(project.ID, contributor.ID, &CreateInvitationRequest{Email: "x@example.com"})
	assertForbidden(t, err)
}

func TestInvitationCreateRejectsUnknownRole(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, "Web App")
	svc := NewInvitationService(db)

	_, err := svc.Create(project.ID, owner.ID, &CreateInvitationRequest{Email: "a@example.com", Role: "ADMIN"})
	assertStatus(t, err, 400)
}

func TestInvitationAccept(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	invitee := seedUser(t, db, "carol")
	project := seedProject(t, db, owner, "Web App")
	svc := NewInvitationService(db)

	inv, err := svc.Create(project.ID, owner.ID, &CreateInvitationRequest{Email: "carol@example.com"})
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	member, err := svc.Accept(inv.Token, invitee.ID)
	if err != nil {
		t.Fatalf("accept invitation: %v", err)
	}
	if member.ProjectID != project.ID || member.UserID != invitee.ID {
		t.Errorf("membership row mismatch: %+v", member)
	}
	if member.Role != models.RoleContributor {
		t.Errorf("expected CONTRIBUTOR membership, got %s", member.Role)
	}

	role, err := NewAccessService(db).ResolveRole(project.ID, invitee.ID)
	if err != nil {
		t.Fatalf("resolve role: %v", err)
	}
	if role != models.RoleContributor {
		t.Errorf("invitee should now be a CONTRIBUTOR, got %q", role)
	}

	// Second redemption of the same token fails.
	other := seedUser(t, db, "dave")
	_, err = svc.Accept(inv.Token, other.ID)
	assertStatus(t, err, 400)
}

func TestInvitationAcceptExpired(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	invitee := seedUser(t, db, "carol")
	project := seedProject(t, db, owner, "Web App")
	svc := NewInvitationService(db)

	inv := models.Invitation{
		ProjectID: project.ID,
		Email:     "carol@example.com",
		Role:      models.RoleContributor,
		Token:     "expired-token",
		InvitedBy: owner.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(&inv).Error; err != nil {
		t.Fatalf("seed expired invitation: %v", err)
	}

	_, err := svc.Accept(inv.Token, invitee.ID)
	assertStatus(t, err, 400)
}

func TestInvitationAcceptExistingMember(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, "Web App")
	svc := NewInvitationService(db)

	inv, err := svc.Create(project.ID, owner.ID, &CreateInvitationRequest{Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("create invitation: %v", err)
	}

	_, err = svc.Accept(inv.Token, owner.ID)
	assertStatus(t, err, 400)
}

func TestInvitationAcceptUnknownToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "carol")
	svc := NewInvitationService(db)

	_, err := svc.Accept("no-such-token", user.ID)
	assertStatus(t, err, 404)
}

func TestInvitationPurgeExpired(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	project := seedProject(t, db, owner, "Web App")
	svc := NewInvitationService(db)

	if _, err := svc.Create(project.ID, owner.ID, &CreateInvitationRequest{Email: "live@example.com"}); err != nil {
		t.Fatalf("create invitation: %v", err)
	}
	stale := models.Invitation{
		ProjectID: project.ID,
		Email:     "stale@example.com",
		Role:      models.RoleContributor,
		Token:     "stale-token",
		InvitedBy: owner.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("seed stale invitation: %v", err)
	}

	n, err := svc.PurgeExpired(time.Now())
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged invitation, got %d", n)
	}

	remaining, err := svc.List(project.ID, owner.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 {
		t.Errorf("expected 1 live invitation, got %d", len(remaining))
	}
}
