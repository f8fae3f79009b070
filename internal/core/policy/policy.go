// Package policy holds the pure authorization decisions shared by every
// endpoint: which projection of a user record a caller may see, and which
// mutations a caller may perform. It keeps no state and performs no I/O.
package policy

import "github.com/photoshare/photoshare-api/internal/core/domain"

// View selects one of the three disjoint user projections.
type View int

const (
	// ViewPublic exposes identity fields only.
	ViewPublic View = iota
	// ViewModerator adds the activity status but no role or security fields.
	ViewModerator
	// ViewFull exposes the complete record.
	ViewFull
)

// ViewFor picks the projection of target that caller is allowed to see.
// Admins and the user themself get the full record, moderators the moderator
// view, everyone else the public one.
func ViewFor(caller, target *domain.User) View {
	switch {
	case caller.Role == domain.RoleAdmin || caller.ID == target.ID:
		return ViewFull
	case caller.Role == domain.RoleModerator:
		return ViewModerator
	default:
		return ViewPublic
	}
}

// CanDeleteUser gates account deletion: the account owner or an admin.
func CanDeleteUser(caller, target *domain.User) error {
	if caller.Role == domain.RoleAdmin || caller.ID == target.ID {
		return nil
	}
	return domain.ErrForbidden
}

// CanSetActiveStatus gates banning and unbanning. Admins and moderators may
// flip the flag, but only an admin may act on another admin account. The
// second check is the privilege-escalation guard: a moderator must never be
// able to lock out an admin.
func CanSetActiveStatus(caller, target *domain.User) error {
	if !caller.Role.AtLeast(domain.RoleModerator) {
		return domain.ErrForbidden
	}
	if target.Role == domain.RoleAdmin && caller.Role != domain.RoleAdmin {
		return domain.ErrOperationOnAdmin
	}
	return nil
}

// CanSetRole gates role changes: admin only.
func CanSetRole(caller *domain.User) error {
	if caller.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// CanModerateContent reports whether caller may delete comments or tags
// owned by other users.
func CanModerateContent(caller *domain.User) bool {
	return caller.Role.AtLeast(domain.RoleModerator)
}

// CanMutateResource reports whether caller may edit a photo, comment or
// rating owned by ownerID. Editing is owner-only.
func CanMutateResource(caller *domain.User, ownerID int64) bool {
	return caller.ID == ownerID
}

// CanDeletePhoto reports whether caller may delete a photo owned by ownerID.
// Deletion admits the owner and admins; moderators are deliberately excluded
// from the photo delete path.
func CanDeletePhoto(caller *domain.User, ownerID int64) bool {
	return caller.ID == ownerID || caller.Role == domain.RoleAdmin
}

// CanDeleteComment reports whether caller may delete a comment owned by
// ownerID: the owner, or anyone allowed to moderate content.
func CanDeleteComment(caller *domain.User, ownerID int64) bool {
	return caller.ID == ownerID || CanModerateContent(caller)
}

// CanRatePhoto reports whether caller may rate a photo owned by ownerID.
// Any authenticated user except the photo's own owner.
func CanRatePhoto(caller *domain.User, ownerID int64) bool {
	return caller.ID != ownerID
}
