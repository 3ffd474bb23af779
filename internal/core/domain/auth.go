package domain

// AuthIdentity is the authenticated principal attached to a storefront
// session: the user id plus the bearer credential forwarded to the remote
// cart service.
type AuthIdentity struct {
	UserID     string
	Credential string
}

// AuthState is the auth snapshot a session reconciler reacts to. Identity is
// nil in guest mode. Loading reports that the auth holder has not finished
// resolving the credential yet; reconcilers defer all transitions until it
// clears.
type AuthState struct {
	Identity *AuthIdentity
	Loading  bool
}

// Authenticated reports whether a resolved identity is present.
func (s AuthState) Authenticated() bool {
	return !s.Loading && s.Identity != nil && s.Identity.UserID != ""
}
