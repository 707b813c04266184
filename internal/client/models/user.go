package models

// UserProfile is the backend user record. A copy of the last known profile
// is cached locally so the UI can show an identity while offline.
// JSON field names follow the backend contract.
type UserProfile struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}
