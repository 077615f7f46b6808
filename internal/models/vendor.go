package models

import "time"

// Vendor is the authenticated seller identity attached to a session. The
// vendor id is the WordPress user id; WCFM-style marketplaces share the two.
type Vendor struct {
	ID          int       `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	StoreName   string    `json:"storeName,omitempty"`
	LoggedInAt  time.Time `json:"loggedInAt"`
}

// LoginInput is the credential payload forwarded to the auth provider.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterInput is the payload for registering a new seller account.
type RegisterInput struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	StoreName string `json:"storeName" binding:"required"`
	Phone     string `json:"phone"`
}
