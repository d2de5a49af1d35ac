package entity

// User is a customer row in the `users` table. The password hash is never
// part of this view.
type User struct {
	ID             int64  `db:"id" json:"id"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	Email          string `db:"email" json:"email"`
	Phone          int64  `db:"phone" json:"phone"`
	StreetAddress  string `db:"street_address" json:"street_address"`
	AddressCity    string `db:"address_city" json:"address_city"`
	AddressZip     int64  `db:"address_zip" json:"address_zip"`
	AddressCountry string `db:"address_country" json:"address_country"`
}

// Credentials is the projection used only by password authentication.
type Credentials struct {
	ID       int64  `db:"id"`
	Email    string `db:"email"`
	Password string `db:"password"`
}
