package user

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password the policy accepts
const MinPasswordLength = 8

// ValidatePassword applies the password policy for an account named username
func ValidatePassword(password, username string) error {
	var problems []string

	if len(password) < MinPasswordLength {
		problems = append(problems, "This password is too short. It must contain at least 8 characters.")
	}
	if password != "" && strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		problems = append(problems, "This password is entirely numeric.")
	}
	if similarToUsername(password, username) {
		problems = append(problems, "The password is too similar to the username.")
	}

	if len(problems) == 0 {
		return nil
	}
	return ErrWeakPassword.WithMessage(strings.Join(problems, " "))
}

func similarToUsername(password, username string) bool {
	p := strings.ToLower(password)
	u := strings.ToLower(strings.TrimSpace(username))
	if p == "" || len(u) < 3 {
		return false
	}
	return strings.Contains(p, u) || strings.Contains(u, p)
}

// HashPassword returns the bcrypt hash stored for a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
