package gate

// Action describes the kind of operation a subject wants to perform.
type Action string

const (
	ActionView     Action = "view"
	ActionList     Action = "list"
	ActionUpload   Action = "upload"
	ActionDownload Action = "download"
	ActionDelete   Action = "delete"
	// ActionManage covers administrative operations such as editing
	// access grants, provisioning users and reading the audit trail.
	ActionManage Action = "manage"
)
