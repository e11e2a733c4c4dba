package schema

// Principal is the authenticated identity performing an action. It is
// supplied by the identity provider; this service never stores credentials.
type Principal struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Name returns the display name, falling back to the email address.
func (p Principal) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}
