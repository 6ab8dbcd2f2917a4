package models

// User is an account record. Password holds the bcrypt hash, never the
// plain text, and is excluded from JSON responses.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}
