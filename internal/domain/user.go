package domain

// User is a registered account. Username and email are each unique.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Credentials is the username/email/password triple used by signup and login.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// Validate requires all three fields.
func (c Credentials) Validate() error {
	if c.Username == "" || c.Email == "" || c.Password == "" {
		return ErrMissingCredential
	}
	return nil
}
