package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateTempPassword produces the temporary password mailed to users
// created by an admin. 10 characters from an alphabet without lookalikes.
func generateTempPassword() string {
	const length = 10
	b := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: use current nanoseconds
			return fmt.Sprintf("gst-%X", time.Now().UnixNano())
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b)
}

// generateResetToken produces the opaque token mailed by the password
// recovery flow. 32 hex characters.
func generateResetToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("gst-%X", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
