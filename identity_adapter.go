package auth

// userIdentity adapts a User record to the Identity consumed by the token
// services.
type userIdentity struct {
	user *User
}

var _ Identity = (*userIdentity)(nil)

// IdentityFromUser wraps a user record as an Identity
func IdentityFromUser(user *User) Identity {
	return &userIdentity{user: user}
}

func (i *userIdentity) ID() string {
	if i.user == nil {
		return ""
	}
	return i.user.ID.String()
}

func (i *userIdentity) Email() string {
	if i.user == nil {
		return ""
	}
	return i.user.Email
}

func (i *userIdentity) Role() string {
	if i.user == nil {
		return ""
	}
	return i.user.Role
}
