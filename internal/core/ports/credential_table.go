package ports

import "github.com/sactel/admin-console/internal/core/domain"

// CredentialTable answers exact email+password lookups against the static
// fallback entries.
type CredentialTable interface {
	Lookup(email, password string) (domain.Identity, bool)
}
