package entity

// Photo is a link to a before or after picture of a project.
type Photo struct {
	ID          int64  `db:"id" json:"id"`
	ProjectID   int64  `db:"project_id" json:"project_id"`
	PhotoLink   string `db:"photo_link" json:"photo_link"`
	Description string `db:"description" json:"description"`
	After       bool   `db:"after" json:"after"`
	UserID      int64  `db:"user_id" json:"user_id"`
}
