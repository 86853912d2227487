package services

import "strings"

// WildcardEmail is the wire sentinel that selects every user
const WildcardEmail = "*"

// EmailSelector picks either one user or all users. The zero value selects
// all users.
type EmailSelector struct {
	email string
}

// ForUser selects the single user with the given email
func ForUser(email string) EmailSelector {
	return EmailSelector{email: strings.TrimSpace(email)}
}

// AllUsers selects every user
func AllUsers() EmailSelector {
	return EmailSelector{}
}

// ParseEmailSelector maps the wire value: empty or "*" selects all users
func ParseEmailSelector(raw string) EmailSelector {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == WildcardEmail {
		return AllUsers()
	}
	return ForUser(raw)
}

// Email returns the selected email and true, or false for all users
func (s EmailSelector) Email() (string, bool) {
	return s.email, s.email != ""
}

// IsAll reports whether every user is selected
func (s EmailSelector) IsAll() bool {
	return s.email == ""
}
