// Package credentials holds the static fallback credential table consulted
// when the remote auth service cannot answer. It is a development aid and is
// never wired in production.
package credentials

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

// Table is an immutable list of credential entries.
type Table struct {
	entries []domain.CredentialEntry
}

var _ ports.CredentialTable = (*Table)(nil)

// New validates entries and returns a table over them.
func New(entries []domain.CredentialEntry) (*Table, error) {
	seen := make(map[string]struct{}, len(entries))
	out := make([]domain.CredentialEntry, 0, len(entries))
	for i, e := range entries {
		if err := e.Identity().Validate(); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if (e.Password == "") == (e.PasswordHash == "") {
			return nil, fmt.Errorf("entry %d (%s): exactly one of password or password_hash is required", i+1, e.Email)
		}
		if _, dup := seen[e.Email]; dup {
			return nil, fmt.Errorf("entry %d: duplicate email %s", i+1, e.Email)
		}
		seen[e.Email] = struct{}{}
		out = append(out, e)
	}
	return &Table{entries: out}, nil
}

// Builtin returns the demo table shipped with development builds.
func Builtin() *Table {
	return &Table{entries: []domain.CredentialEntry{
		{ID: "1", Email: "admin@empresa.com", Password: "admin123", Nombre: "Administrador", Role: domain.RoleAdmin},
		{ID: "2", Email: "contador@empresa.com", Password: "contador123", Nombre: "Contador General", Role: domain.RoleAccountant},
		{ID: "3", Email: "asistente@empresa.com", Password: "asistente123", Nombre: "Asistente Contable", Role: domain.RoleAssistant},
		{ID: "4", Email: "visor@empresa.com", Password: "visor123", Nombre: "Usuario Visor", Role: domain.RoleViewer},
	}}
}

type fileFormat struct {
	Users []domain.CredentialEntry `yaml:"users"`
}

// LoadFile reads a YAML table:
//
//	users:
//	  - id: "1"
//	    email: admin@empresa.com
//	    password_hash: $2a$10$...
//	    nombre: Administrador
//	    role: admin
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credential file: %w", err)
	}
	var f fileFormat
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse credential file: %w", err)
	}
	for i := range f.Users {
		f.Users[i].Role = domain.Role(strings.ToLower(strings.TrimSpace(string(f.Users[i].Role))))
	}
	return New(f.Users)
}

// Lookup matches email exactly and password case-sensitively.
func (t *Table) Lookup(email, password string) (domain.Identity, bool) {
	if t == nil || password == "" {
		return domain.Identity{}, false
	}
	for _, e := range t.entries {
		if e.Email != email {
			continue
		}
		if e.PasswordHash != "" {
			if bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) != nil {
				return domain.Identity{}, false
			}
			return e.Identity(), true
		}
		if subtle.ConstantTimeCompare([]byte(e.Password), []byte(password)) != 1 {
			return domain.Identity{}, false
		}
		return e.Identity(), true
	}
	return domain.Identity{}, false
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
