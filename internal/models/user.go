package models

import "time"

// User is a remote operator. Operators may edit programs and press panel
// buttons from the web; reads need no account.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
