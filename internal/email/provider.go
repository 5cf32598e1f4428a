package email

// Provider is the mail transport collaborator. Implementations deliver the
// two notification kinds this system sends; failures bubble up untyped and
// are classified by the orchestrating service.
type Provider interface {
	// SendAccountActivation mails the activation token to a new account.
	SendAccountActivation(to, token string) error

	// SendPasswordReset mails a password reset token.
	SendPasswordReset(to, token string) error
}
