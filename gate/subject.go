package gate

import "context"

// Role is the coarse-grained role a subject holds.
// The dataroom model only knows two: admins bypass per-document grants
// and hold exclusive rights to upload, delete and manage; regular users
// see exactly the documents they were granted.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Subject is the resolved identity a policy decides about.
type Subject struct {
	ID     uint
	Role   Role
	Active bool
}

// IsAdmin reports whether the subject holds the admin role.
func (s *Subject) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}

// SubjectResolver resolves a raw subject value (typically a user ID) to
// its Subject record. A nil Subject with a nil error means the subject
// is unknown and must be denied.
type SubjectResolver[U any] interface {
	Resolve(ctx context.Context, subject U) (*Subject, error)
}

// StaticResolver is a simple in-memory resolver for tests and static
// configuration.
type StaticResolver[U comparable] struct {
	subjects map[U]*Subject
}

// NewStaticResolver creates a resolver with no mappings.
func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{subjects: make(map[U]*Subject)}
}

// Set assigns a subject record to a raw subject value.
func (r *StaticResolver[U]) Set(subject U, s *Subject) {
	r.subjects[subject] = s
}

// Resolve returns the subject record, or nil when unknown.
func (r *StaticResolver[U]) Resolve(_ context.Context, subject U) (*Subject, error) {
	return r.subjects[subject], nil
}
