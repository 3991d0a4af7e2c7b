package models

import "time"

// User is a stored credential. PasswordHash is never sent to clients.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountInfo is the public view of a User.
type AccountInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (u *User) Info() AccountInfo {
	return AccountInfo{ID: u.ID, Email: u.Email}
}
