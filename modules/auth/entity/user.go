package entity

import "time"

// User records a nickname that has logged in. ID is derived from the
// nickname, so the row never decides who a caller is.
type User struct {
	ID          int64     `db:"id" json:"id"`
	Nickname    string    `db:"nickname" json:"nickname"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	LastLoginAt time.Time `db:"last_login_at" json:"last_login_at"`
}
