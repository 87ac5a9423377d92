package entity

import (
	"time"
)

// User is a buyer as known to the ledger.
// ID comes from the identity provider and never changes; Name and Email are
// best-effort display data refreshed on repeat purchases.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
}
