package auth

import (
	"crypto/rand"
	"encoding/hex"
)

// nonceBytes gives 128 bits of entropy per state token.
const nonceBytes = 16

// NonceGenerator produces the state token that binds a callback to the
// browser that started the install.
type NonceGenerator interface {
	Generate() string
}

type CryptoNonce struct{}

func (CryptoNonce) Generate() string {
	return randomHex(nonceBytes)
}

func randomHex(nBytes int) string {
	b := make([]byte, nBytes)
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
