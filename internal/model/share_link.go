package model

// Revoked is terminal: no code path moves a link back to active.
const (
	ShareStateActive  = 1
	ShareStateRevoked = 2
)

// ShareLink is a capability grant: holding its token gives read-only access to
// one baby and all its records. PasswordHash empty means no password gate;
// ExpiresAt zero means the link never expires.
type ShareLink struct {
	ID           string `json:"id"`
	BabyID       string `json:"baby_id"`
	Token        string `json:"token"`
	PasswordHash string `json:"-"`
	CreatedBy    string `json:"created_by"`
	State        int    `json:"state"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	Ctime        int64  `json:"ctime"`
	Mtime        int64  `json:"mtime"`
}
