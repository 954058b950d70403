package models

// AuditLevel separates blocking errors from advisory warnings.
type AuditLevel string

const (
	AuditWarning AuditLevel = "warning"
	AuditError   AuditLevel = "error"
)

// AuditIssue is one finding from the manual audit validator. Error-level
// issues block progression unless explicitly bypassed once by the caller.
type AuditIssue struct {
	Level   AuditLevel `json:"level"`
	Message string     `json:"message"`
}

// HasErrors reports whether any issue in the list is error-level.
func HasErrors(issues []AuditIssue) bool {
	for _, issue := range issues {
		if issue.Level == AuditError {
			return true
		}
	}
	return false
}
