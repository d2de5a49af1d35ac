package entity

// Tradesman is a contractor row in the `tradesmen` table.
type Tradesman struct {
	ID        int64    `db:"id" json:"id"`
	FirstName string   `db:"first_name" json:"first_name"`
	LastName  string   `db:"last_name" json:"last_name"`
	Email     string   `db:"email" json:"email"`
	Phone     int64    `db:"phone" json:"phone"`
	Rating    *float64 `db:"rating" json:"rating,omitempty"`
	IsBlocked bool     `db:"is_blocked" json:"is_blocked"`
}

// Credentials is the projection used only by password authentication.
type Credentials struct {
	ID       int64  `db:"id"`
	Email    string `db:"email"`
	Password string `db:"password"`
}
