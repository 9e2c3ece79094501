package models

import "time"

// Account is a registered user. StoredSecret is the "salt:hash" string
// produced by auth.Hasher and must never leave the server.
type Account struct {
	ID           string
	Username     string
	Email        string
	StoredSecret string
	CreatedAt    time.Time
}
