package access

// Identity is who is asking. It is always passed explicitly; nothing in this
// package reads ambient request state.
type Identity interface {
	identity()
}

// Owner is an authenticated account acting on its own data.
type Owner struct {
	UserID string
}

func (Owner) identity() {}

// Viewer is an anonymous caller presenting a share token, plus the password
// if the link is gated.
type Viewer struct {
	Token    string
	Password string
}

func (Viewer) identity() {}

type Operation int

const (
	OpRead Operation = iota + 1
	OpCreate
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}
