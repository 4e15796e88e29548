package domain

import "time"

// User is an account held by the auth service.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Nombre       string    `json:"nombre"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Activo       bool      `json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the account onto the public principal shape.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Nombre: u.Nombre, Role: u.Role}
}
