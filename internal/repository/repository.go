package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/eliasandraade/lumenplus-app/internal/models"
	"github.com/eliasandraade/lumenplus-app/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// ListActiveIDs returns the IDs of all active users
	ListActiveIDs() ([]uuid.UUID, error)
}

// OrgUnitRepository defines the interface for org unit data access
type OrgUnitRepository interface {
	// CreateWithCoordinator creates a unit and its creator's coordinator
	// membership within a single transaction
	CreateWithCoordinator(unit *models.OrgUnit, coordinator *models.Membership) error

	// FindByID finds a unit by ID
	FindByID(id uuid.UUID) (*models.OrgUnit, error)

	// FindRoot finds the COUNCIL_GENERAL unit, active or not
	FindRoot() (*models.OrgUnit, error)

	// ListActive returns all active units
	ListActive() ([]models.OrgUnit, error)

	// CountActiveMembers returns the ACTIVE membership count per unit
	CountActiveMembers() (map[uuid.UUID]int64, error)

	// SlugExists reports whether a sibling of parentID already uses slug
	SlugExists(parentID *uuid.UUID, slug string) (bool, error)

	// Update persists changes to a unit
	Update(unit *models.OrgUnit) error
}

// MembershipRepository defines the interface for membership data access
type MembershipRepository interface {
	// Find finds the membership of a user in a unit
	Find(orgUnitID, userID uuid.UUID) (*models.Membership, error)

	// ListByUnit lists ACTIVE members of a unit, coordinators first
	ListByUnit(orgUnitID uuid.UUID) ([]models.Membership, error)

	// ListByUser lists a user's ACTIVE memberships with their units
	ListByUser(userID uuid.UUID) ([]models.Membership, error)

	// Update persists changes to a membership
	Update(membership *models.Membership) error

	// Delete hard-deletes a membership, returning the number of rows removed
	Delete(orgUnitID, userID uuid.UUID) (int64, error)

	// CountCoordinators counts ACTIVE coordinators of a unit
	CountCoordinators(orgUnitID uuid.UUID) (int64, error)

	// HasMinistryMembershipUnder reports whether the user holds an ACTIVE
	// membership in an active MINISTRY whose parent is the given sector
	HasMinistryMembershipUnder(userID, sectorID uuid.UUID) (bool, error)

	// ListActiveUserIDsByUnits returns the distinct user IDs holding ACTIVE
	// memberships in any of the given units
	ListActiveUserIDsByUnits(orgUnitIDs []uuid.UUID) ([]uuid.UUID, error)
}

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create creates a new invite
	Create(invite *models.Invite) error

	// FindByID finds an invite by ID with its unit
	FindByID(id uuid.UUID) (*models.Invite, error)

	// FindPending finds the PENDING invite for a (unit, user) pair
	FindPending(orgUnitID, userID uuid.UUID) (*models.Invite, error)

	// ListPendingByUser lists a user's PENDING invites, newest first
	ListPendingByUser(userID uuid.UUID) ([]models.Invite, error)

	// ListPendingByUnit lists a unit's PENDING invites, newest first
	ListPendingByUnit(orgUnitID uuid.UUID) ([]models.Invite, error)

	// Accept atomically flips a PENDING invite to ACCEPTED and inserts the
	// membership. Returns ErrNotPending if the invite was no longer PENDING;
	// a membership uniqueness violation surfaces as gorm.ErrDuplicatedKey.
	Accept(invite *models.Invite, now time.Time) (*models.Membership, error)

	// Reject atomically flips a PENDING invite to REJECTED. Returns
	// ErrNotPending if the invite was no longer PENDING.
	Reject(invite *models.Invite, now time.Time) error
}

// NoticeFilter selects the recipients of a broadcast
type NoticeFilter struct {
	SendToAll  bool
	OrgUnitIDs []uuid.UUID
}

// SentNotice is a notice with its delivery counts
type SentNotice struct {
	Notice         models.Notice
	RecipientCount int64
	ReadCount      int64
}

// NoticeRepository defines the interface for notice data access
type NoticeRepository interface {
	// CreateWithRecipients creates a notice and one recipient row per user
	// within a single transaction
	CreateWithRecipients(notice *models.Notice, userIDs []uuid.UUID) error

	// ListInbox returns a page of a user's unexpired notices, unread first
	// then newest, along with total and unread counts
	ListInbox(userID uuid.UUID, now time.Time, params utils.PaginationParams) ([]models.NoticeRecipient, int64, int64, error)

	// MarkRead marks one recipient row as read; returns false if the row does
	// not belong to the user or was already read
	MarkRead(userID, recipientID uuid.UUID, now time.Time) (bool, error)

	// MarkAllRead marks all of a user's unread rows as read, returning the count
	MarkAllRead(userID uuid.UUID, now time.Time) (int64, error)

	// ListSentByUser returns notices sent by a user with delivery counts
	ListSentByUser(userID uuid.UUID, limit int) ([]SentNotice, error)
}
