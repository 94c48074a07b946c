package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used for all credentials
	DefaultCost = 12

	// MinLength is the minimum accepted password length
	MinLength = 8
)

// Hash hashes a password using bcrypt
func Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Validate checks if a password meets requirements
func Validate(password string) bool {
	return len(password) >= MinLength
}

// GenerateTemporary builds a one-time password for a newly created or
// reset account: TH-<initials><4 digits><symbol>. The account is flagged
// password_must_change, so the value only has to survive first login.
func GenerateTemporary(firstName, lastName string) (string, error) {
	initials := initial(firstName) + initial(lastName)

	num, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}

	symbols := "@#$%"
	idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(symbols))))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("TH-%s%d%c", initials, num.Int64()+1000, symbols[idx.Int64()]), nil
}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "X"
	}
	return strings.ToUpper(name[:1])
}
