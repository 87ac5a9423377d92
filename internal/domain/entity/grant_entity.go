package entity

import "time"

// Grant records that a user has paid for one asset.
// (UserID, AssetID) is unique; the first PaymentID recorded for the pair is kept.
type Grant struct {
	ID        int64
	UserID    string
	AssetID   string
	PaymentID string
	CreatedAt time.Time
}

// Sale is a grant joined with the buyer's display data, used by the admin report.
type Sale struct {
	GrantID   int64     `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"name"`
	UserEmail string    `json:"email"`
	AssetID   string    `json:"note_path"`
	PaymentID string    `json:"payment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultBuyerName is shown for buyers who never shared a display name.
const DefaultBuyerName = "Student"

// DisplayName returns the buyer name or DefaultBuyerName when unknown.
func (s Sale) DisplayName() string {
	if s.UserName == "" {
		return DefaultBuyerName
	}
	return s.UserName
}
