package auth

import "time"

type Account struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	IsSuperuser  bool      `json:"is_superuser"`
	CreatedAt    time.Time `json:"created_at"`
}

// AccountExtra holds the optional fields accepted on account creation.
type AccountExtra struct {
	Name string
}

// AccountUpdate holds the fields to change; nil fields are kept.
type AccountUpdate struct {
	Email    *string
	Name     *string
	Password *string
}
