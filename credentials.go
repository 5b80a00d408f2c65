package recipeapi

import (
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the original validation rule for user signup.
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// HashPassword hashes a plaintext password with bcrypt at default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// ValidateNewUser checks the fields required to create a user document.
func ValidateNewUser(u *User, password string) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(u.Email) {
		return fmt.Errorf("invalid email format")
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidateUserUpdate checks the fields required on update. Password is
// optional here - an empty password keeps the stored hash.
func ValidateUserUpdate(u *User, password string) error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(u.Email) {
		return fmt.Errorf("invalid email format")
	}
	if password != "" && len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
