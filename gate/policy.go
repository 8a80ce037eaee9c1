package gate

import "context"

// Policy defines authorization rules for a resource type.
// U is the subject type (e.g. uint for a user ID).
// Implementations decide whether subject may perform action on resource.
type Policy[U any] interface {
	// Can returns true if subject is authorized to perform action on resource.
	// For list/upload, resource may be nil (context-only check).
	Can(ctx context.Context, subject U, action Action, resource any) bool
}
