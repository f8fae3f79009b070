package policy

import (
	"errors"
	"testing"

	"github.com/photoshare/photoshare-api/internal/core/domain"
)

func user(id int64, role domain.Role) *domain.User {
	return &domain.User{ID: id, Role: role, IsActive: true}
}

func TestViewFor(t *testing.T) {
	admin := user(1, domain.RoleAdmin)
	moderator := user(2, domain.RoleModerator)
	standard := user(3, domain.RoleStandard)
	other := user(4, domain.RoleStandard)

	tests := []struct {
		name   string
		caller *domain.User
		target *domain.User
		want   View
	}{
		{"admin sees full", admin, other, ViewFull},
		{"self sees full", standard, standard, ViewFull},
		{"moderator sees moderator view", moderator, other, ViewModerator},
		{"moderator sees own full record", moderator, moderator, ViewFull},
		{"standard sees public", standard, other, ViewPublic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ViewFor(tt.caller, tt.target); got != tt.want {
				t.Fatalf("ViewFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanDeleteUser(t *testing.T) {
	admin := user(1, domain.RoleAdmin)
	moderator := user(2, domain.RoleModerator)
	standard := user(3, domain.RoleStandard)
	other := user(4, domain.RoleStandard)

	if err := CanDeleteUser(admin, other); err != nil {
		t.Fatalf("admin should delete anyone: %v", err)
	}
	if err := CanDeleteUser(standard, standard); err != nil {
		t.Fatalf("owner should delete own account: %v", err)
	}
	if err := CanDeleteUser(standard, other); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := CanDeleteUser(moderator, other); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("moderator must not delete other accounts, got %v", err)
	}
}

func TestCanSetActiveStatus(t *testing.T) {
	admin := user(1, domain.RoleAdmin)
	otherAdmin := user(2, domain.RoleAdmin)
	moderator := user(3, domain.RoleModerator)
	standard := user(4, domain.RoleStandard)

	if err := CanSetActiveStatus(admin, standard); err != nil {
		t.Fatalf("admin should ban standard users: %v", err)
	}
	if err := CanSetActiveStatus(admin, otherAdmin); err != nil {
		t.Fatalf("admin should act on admin accounts: %v", err)
	}
	if err := CanSetActiveStatus(moderator, standard); err != nil {
		t.Fatalf("moderator should ban standard users: %v", err)
	}
	if err := CanSetActiveStatus(moderator, admin); !errors.Is(err, domain.ErrOperationOnAdmin) {
		t.Fatalf("moderator acting on admin: expected ErrOperationOnAdmin, got %v", err)
	}
	if err := CanSetActiveStatus(standard, standard); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCanSetRole(t *testing.T) {
	if err := CanSetRole(user(1, domain.RoleAdmin)); err != nil {
		t.Fatalf("admin should change roles: %v", err)
	}
	if err := CanSetRole(user(2, domain.RoleModerator)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for moderator, got %v", err)
	}
	if err := CanSetRole(user(3, domain.RoleStandard)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for standard, got %v", err)
	}
}

func TestContentGates(t *testing.T) {
	admin := user(1, domain.RoleAdmin)
	moderator := user(2, domain.RoleModerator)
	owner := user(3, domain.RoleStandard)
	stranger := user(4, domain.RoleStandard)

	if !CanModerateContent(admin) || !CanModerateContent(moderator) {
		t.Fatal("admin and moderator should moderate content")
	}
	if CanModerateContent(owner) {
		t.Fatal("standard user should not moderate content")
	}

	if !CanMutateResource(owner, owner.ID) {
		t.Fatal("owner should mutate own resource")
	}
	if CanMutateResource(admin, owner.ID) {
		t.Fatal("editing is owner-only, even for admin")
	}

	if !CanDeletePhoto(owner, owner.ID) || !CanDeletePhoto(admin, owner.ID) {
		t.Fatal("owner and admin should delete a photo")
	}
	if CanDeletePhoto(moderator, owner.ID) {
		t.Fatal("moderator must not delete photos")
	}

	if !CanDeleteComment(moderator, owner.ID) {
		t.Fatal("moderator should delete others' comments")
	}
	if CanDeleteComment(stranger, owner.ID) {
		t.Fatal("stranger must not delete others' comments")
	}

	if CanRatePhoto(owner, owner.ID) {
		t.Fatal("owner must not rate own photo")
	}
	if !CanRatePhoto(stranger, owner.ID) {
		t.Fatal("non-owner should rate a photo")
	}
}
