// Package password wraps bcrypt for both account passwords and share-link
// passwords. Comparison is constant time and deliberately slow.
package password

import "golang.org/x/crypto/bcrypt"

const hashCost = bcrypt.DefaultCost

func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports nil only when plain matches hash. The caller decides how a
// mismatch surfaces; for share links it must be indistinguishable from a
// missing link.
func Compare(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
