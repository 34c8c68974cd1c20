package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a given password using bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain password with its hashed version.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NewBurnHash builds a throwaway hash at the same cost as stored passwords.
// Comparing against it when a login names an unknown account makes both
// failure paths spend the same bcrypt work.
func NewBurnHash(cost int) (string, error) {
	return HashPassword("not-a-real-password", cost)
}

// BurnPasswordCheck performs a throwaway comparison against hash.
func BurnPasswordCheck(password, hash string) {
	_ = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
