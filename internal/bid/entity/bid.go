package entity

// Bid is a tradesman's price offer for a project.
type Bid struct {
	ID          int64   `db:"id" json:"id"`
	ProjectID   int64   `db:"project_id" json:"project_id"`
	TradesmenID int64   `db:"tradesmen_id" json:"tradesmen_id"`
	Bid         float64 `db:"bid" json:"bid"`
}

// BidWithTradesman is a bid listed for the project owner, with the bidder's name.
type BidWithTradesman struct {
	Bid
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
