package domain

// VerificationStatus tracks progress through the broker link workflow.
type VerificationStatus string

const (
	VerificationChecking            VerificationStatus = "checking"
	VerificationRequiresCredentials VerificationStatus = "requires_credentials"
	VerificationRequiresAuth        VerificationStatus = "requires_auth"
	VerificationAuthStarted         VerificationStatus = "auth_started"
	VerificationAuthCompleted       VerificationStatus = "auth_completed"
	VerificationSuccess             VerificationStatus = "success"
	VerificationFailed              VerificationStatus = "failed"
)

// Terminal reports whether the workflow has finished.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationSuccess || s == VerificationFailed
}

// VerificationState is the full workflow snapshot returned to clients.
// AuthorizeURL is set when the next step is visiting the broker's
// consent page.
type VerificationState struct {
	Status       VerificationStatus
	Detail       string
	AuthorizeURL string
}
