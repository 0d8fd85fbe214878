package user

import (
	"database/sql"
	"time"

	"github.com/fkhayef/reimburse/pkg/middleware"
)

// User is a staff account. PasswordHash is a bcrypt hash and never leaves the service.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	CreatedBy    *Ref
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Ref is the compact form used for creator and updater stamps
type Ref struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// NewRef builds a Ref from a LEFT JOIN on users; nil when the stamp is empty
func NewRef(id sql.NullInt64, username sql.NullString) *Ref {
	if !id.Valid {
		return nil
	}
	return &Ref{ID: id.Int64, Username: username.String}
}

// Principal is the request identity derived from this user
func (u *User) Principal() *middleware.Principal {
	return &middleware.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}
