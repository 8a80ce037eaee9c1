package policy

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/roomkeep/dataroom/gate"
)

// Resource type names registered on the gate.
const (
	ResourceDocument = "document"
	ResourceUser     = "user"
	ResourceGrant    = "grant"
	ResourceAudit    = "audit"
)

// AuthGate is the configured authorization checkpoint for the dataroom.
// Roles are resolved through a TTL cache; grant rows are never cached.
type AuthGate struct {
	Gate     *gate.Gate[uint]
	Resolver *gate.CachedResolver[uint]
}

// NewAuthGate creates a fully configured gate.
//   - db: catalog database for role and grant lookups
//   - cacheTTL: how long to cache user roles (e.g. 30*time.Second)
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	resolver := gate.NewCachedResolver[uint](NewDBSubjectResolver(db), cacheTTL)

	g := gate.NewGate[uint]()
	g.Register(ResourceDocument, NewDocumentPolicy(db, resolver))
	admin := NewAdminPolicy(resolver)
	g.Register(ResourceUser, admin)
	g.Register(ResourceGrant, admin)
	g.Register(ResourceAudit, admin)

	return &AuthGate{Gate: g, Resolver: resolver}
}

// Authorize checks whether userID may perform action on a resource.
// Returns nil if authorized, gate.ErrUnauthorized otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, userID uint, action gate.Action, resourceType string, resource any) error {
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// Can is a convenience wrapper returning bool instead of error.
func (ag *AuthGate) Can(ctx context.Context, userID uint, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, userID, action, resourceType, resource) == nil
}

// IsAdmin reports whether userID is an active admin.
func (ag *AuthGate) IsAdmin(ctx context.Context, userID uint) bool {
	subject, err := ag.Resolver.Resolve(ctx, userID)
	if err != nil || subject == nil || !subject.Active {
		return false
	}
	return subject.IsAdmin()
}

// InvalidateUser clears the cached role for a user. Call this whenever
// a user's role or activation flag changes.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.Resolver.Invalidate(userID)
}
