package shared

// shared types across the application

// Identity is the verified caller attached to a request by the auth middleware.
type Identity struct {
	UserID string `json:"user_id"` // user identifier(UUID)
	Role   string `json:"role"`    // role name, e.g. "user"
}
