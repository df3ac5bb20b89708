package domain

// SignUpInput is the registration request. Email is normalized to lower case before validation.
type SignUpInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,max=128"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

// SignInInput is the credential sign-in request.
type SignInInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserInfo identifies the account a session belongs to.
type UserInfo struct {
	ID    string
	Email string
}

// AuthResult is returned by sign-up, sign-in and rotation. TokenID is the id of the
// refresh-token record and must be presented with the refresh token to rotate or sign out.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	TokenID      string
	User         UserInfo
}

// LogoutResult is returned by sign-out.
type LogoutResult struct {
	LoggedOut bool
}

// TokenPayload is the verified content of a presented refresh token.
type TokenPayload struct {
	Subject     string
	Email       string
	Permissions []string
}
