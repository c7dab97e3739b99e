package user

import "strings"

// Snapshot is the client-held view of the authenticated user. It is written on
// login/registration and replaced wholesale by a profile fetch; it is never
// invalidated when the server-side record changes.
type Snapshot struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

func (s Snapshot) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
	if full != "" {
		return full
	}
	if s.Username != "" {
		return s.Username
	}
	return s.Email
}

// ProfileUpdate carries the mutable profile fields for an update call.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	AvatarURL *string
}
