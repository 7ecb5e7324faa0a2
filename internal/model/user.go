package model

// UserRecord is the stored form of an account. It carries the password hash
// and must not leave the service layer.
type UserRecord struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
}

// User is the sanitized account view handed to callers (no credential fields).
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// View strips the password hash.
func (r UserRecord) View() User {
	return User{ID: r.ID, Email: r.Email, Name: r.Name}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents an authentication response with a JWT token and user info.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
