package models

import "time"

// DefaultStatus is assigned to every newly registered account.
const DefaultStatus = "I am new!"

// User is the stored account record.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns the outward-facing projection of the account. Only
// projections cross the API boundary; the stored record with its
// credential hash never does.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Status: u.Status,
	}
}

// PublicUser is the serializable view of an account. It carries no
// password field at all, so the credential hash cannot leak by default.
type PublicUser struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// AuthData is the login result handed back to the client.
type AuthData struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}
