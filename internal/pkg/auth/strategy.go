package auth

import (
	"time"

	"github.com/greenbasket/greenbasket/internal/domain/model"
)

// Claims is what an auth token carries: who the caller is and what they may do.
type Claims struct {
	UserID int64
	Role   model.Role
}

// Strategy verifies tokens minted by the identity issuer sharing our secret.
// IssueToken exists for the issuing side and for tests.
type Strategy interface {
	IssueToken(userID int64, role model.Role) (string, error)
	ParseToken(token string) (*Claims, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
