package entity

import "time"

// User is an opaque identity. The game core only ever checks that a
// referenced identity exists; it carries no profile data.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
