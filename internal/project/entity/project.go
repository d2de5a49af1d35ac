package entity

import (
	"time"

	"github.com/clay099/work-order-backend/internal/apperror"
)

// Status is the lifecycle position of a project.
type Status string

const (
	StatusAuction    Status = "auction"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) rank() int {
	switch s {
	case StatusAuction:
		return 0
	case StatusAccepted:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	}
	return -1
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return s.rank() >= 0 }

// Project is a work order. Nullable columns are omitted from JSON when unset.
type Project struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	Description    string     `db:"description" json:"description"`
	StreetAddress  string     `db:"street_address" json:"street_address"`
	AddressCity    string     `db:"address_city" json:"address_city"`
	AddressZip     int64      `db:"address_zip" json:"address_zip"`
	AddressCountry string     `db:"address_country" json:"address_country"`
	CreatedAt      *time.Time `db:"created_at" json:"created_at,omitempty"`
	Price          *float64   `db:"price" json:"price,omitempty"`
	TradesmenID    *int64     `db:"tradesmen_id" json:"tradesmen_id,omitempty"`
	Status         Status     `db:"status" json:"status,omitempty"`
	CompletedAt    *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Issues         *string    `db:"issues" json:"issues,omitempty"`
}

// HasParty reports whether the user or tradesman id takes part in the project.
func (p Project) HasParty(userID, tradesmanID int64) bool {
	if userID != 0 && p.UserID == userID {
		return true
	}
	return tradesmanID != 0 && p.TradesmenID != nil && *p.TradesmenID == tradesmanID
}

// OpenForBidding reports whether bids may still be placed.
func (p Project) OpenForBidding() bool {
	return p.Status == StatusAuction && p.TradesmenID == nil
}

// CheckTransition rejects unknown statuses and any move backwards.
func CheckTransition(from, to Status) error {
	if !to.Valid() {
		return apperror.BadRequest("'%s' is not a valid project status", to)
	}
	if from == StatusCompleted && to != StatusCompleted {
		return apperror.BadRequest("Project is completed and cannot change status")
	}
	if to.rank() < from.rank() {
		return apperror.BadRequest("Project cannot move from '%s' back to '%s'", from, to)
	}
	return nil
}

// Check enforces the assignment invariants of the current state.
func (p Project) Check() error {
	if p.Status == StatusAuction && (p.TradesmenID != nil || p.Price != nil || p.CompletedAt != nil) {
		return apperror.BadRequest("Project in auction cannot have a tradesman, price or completed_at until a bid is accepted")
	}
	if p.Status != StatusAuction && (p.TradesmenID == nil || p.Price == nil) {
		return apperror.BadRequest("Project in status '%s' needs an assigned tradesman and a price", p.Status)
	}
	if p.Status == StatusCompleted && p.CompletedAt == nil {
		return apperror.BadRequest("Completed project needs completed_at")
	}
	return nil
}
