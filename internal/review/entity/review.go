package entity

// Review is the requesting user's rating of the tradesman who completed a
// project. There is at most one per project.
type Review struct {
	ProjectID     int64   `db:"project_id" json:"project_id"`
	UserID        int64   `db:"user_id" json:"user_id"`
	TradesmenID   int64   `db:"tradesmen_id" json:"tradesmen_id"`
	ReviewComment *string `db:"review_comment" json:"review_comment,omitempty"`
	ReviewRating  int64   `db:"review_rating" json:"review_rating"`
}
