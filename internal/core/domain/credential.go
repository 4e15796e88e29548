package domain

// CredentialEntry is a row of the static fallback table. Exactly one of
// Password or PasswordHash is expected to be set.
type CredentialEntry struct {
	ID           string `yaml:"id"`
	Email        string `yaml:"email"`
	Password     string `yaml:"password,omitempty"`
	PasswordHash string `yaml:"password_hash,omitempty"`
	Nombre       string `yaml:"nombre"`
	Role         Role   `yaml:"role"`
}

// Identity strips the secret material from the entry.
func (c CredentialEntry) Identity() Identity {
	return Identity{ID: c.ID, Email: c.Email, Nombre: c.Nombre, Role: c.Role}
}
