// Package entity contains the core business objects of the project.
package entity

// Principal is the opaque representation of an authenticated identity,
// issued by the identity provider. It is absent when logged out; its
// lifetime is the authenticated session.
type Principal struct {
	UID         string `json:"uid"` // Unique identifier assigned by the identity provider.
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
}
