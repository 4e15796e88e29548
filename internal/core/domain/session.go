package domain

// SessionState is the three-valued answer to "who is the current user".
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionAbsent
	SessionPresent
)

func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAbsent:
		return "absent"
	case SessionPresent:
		return "present"
	default:
		return "unknown"
	}
}

// SessionSource records where the current identity came from.
type SessionSource string

const (
	SourceNone     SessionSource = ""
	SourceRemote   SessionSource = "remote"
	SourceFallback SessionSource = "fallback"
	SourceCache    SessionSource = "cache"
)

// SessionRecord is what gets persisted between runs. Token is empty for
// identities that did not come from the remote auth service.
type SessionRecord struct {
	Identity Identity
	Token    string
}

// LoginGrant is a successful remote login.
type LoginGrant struct {
	Identity Identity
	Token    string
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	State    SessionState
	Identity *Identity
	Source   SessionSource
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool {
	return s.State == SessionPresent && s.Identity != nil
}
