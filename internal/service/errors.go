package service

// ValidationError reports malformed or duplicate input. Message is shown to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthenticationError reports bad credentials or an invalid, expired or revoked token.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// AuthorizationError reports a valid session whose role is insufficient.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

var (
	// ErrInvalidCredentials is the single login failure. Unknown email and
	// wrong password must stay indistinguishable.
	ErrInvalidCredentials = &AuthenticationError{Message: "Invalid credentials"}
	// ErrSessionExpired is returned for every token verification failure.
	ErrSessionExpired = &AuthenticationError{Message: "Session expired, please log in again"}
	ErrEmailTaken     = &ValidationError{Message: "Email already registered"}
	ErrForbidden      = &AuthorizationError{Message: "You do not have permission to access this resource"}

	ErrEmployeeNotFound = &NotFoundError{Message: "Employee not found"}
)

// NotFoundError reports a missing resource on the protected surface.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

var (
	ErrLeaveNotFound       = &NotFoundError{Message: "Leave request not found"}
	ErrLeaveAlreadyDecided = &ValidationError{Message: "Leave request has already been decided"}
	ErrLeaveDateRange      = &ValidationError{Message: "Leave end date must not be before its start date"}
)
