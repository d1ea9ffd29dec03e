package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost keeps hashing deliberately slow without stalling request
// throughput.
const bcryptCost = 10

// HashPassword produces a salted one-way digest. Call exactly once per
// password-setting event; digests must never be re-hashed.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether the plaintext matches the stored
// digest. Any mismatch or malformed digest yields false.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
