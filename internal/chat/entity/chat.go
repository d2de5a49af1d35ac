package entity

import "time"

// Chat is one comment on a project. Exactly one of UserID and TradesmenID is
// set: the author's side of the job.
type Chat struct {
	ID          int64     `db:"id" json:"id"`
	ProjectID   int64     `db:"project_id" json:"project_id"`
	UserID      *int64    `db:"user_id" json:"user_id,omitempty"`
	TradesmenID *int64    `db:"tradesmen_id" json:"tradesmen_id,omitempty"`
	Comment     string    `db:"comment" json:"comment"`
	SentAt      time.Time `db:"sent_at" json:"sent_at"`
}

