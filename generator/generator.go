package generator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// AccessCodeLength is the fixed length of event access codes
const AccessCodeLength = 21

// accessCodeAlphabet is the url-safe alphabet access codes are drawn from,
// 64 symbols so every byte of entropy maps cleanly
const accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

type RandomTokenType string

func tokenTypeFromString(token string) RandomTokenType {
	if token == "" {
		panic("zero length token issued, this is probably the only reason to ever panic")
	}
	return RandomTokenType(token)
}

type RandomTokenGenerator struct{}

// CreateAccessCode returns a fixed-length url-safe code suitable
// as an opaque bearer credential
func (*RandomTokenGenerator) CreateAccessCode() RandomTokenType {
	b := make([]byte, AccessCodeLength)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err.Error()) // rand should never fail
	}
	var sb strings.Builder
	sb.Grow(AccessCodeLength)
	for _, v := range b {
		sb.WriteByte(accessCodeAlphabet[int(v)&63])
	}
	return tokenTypeFromString(sb.String())
}

// CreatePINLikeToken returns an 8 digit numeric code
func (*RandomTokenGenerator) CreatePINLikeToken() RandomTokenType {
	num := genRandNum(0, 99999999)
	return tokenTypeFromString(fmt.Sprintf("%08d", num))
}

// CreateSecureToken returns a 32 byte base64 token, used for storage keys
// and webhook nonces
func (*RandomTokenGenerator) CreateSecureToken() RandomTokenType {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic(err.Error()) // rand should never fail
	}
	return tokenTypeFromString(removePadding(base64.URLEncoding.EncodeToString(b)))
}

func removePadding(token string) string {
	return strings.TrimRight(token, "=")
}

func genRandNum(min, max int64) int64 {
	bg := big.NewInt(max - min)
	n, err := rand.Int(rand.Reader, bg)
	if err != nil {
		panic(err)
	}
	return n.Int64() + min
}

func New() *RandomTokenGenerator {
	return &RandomTokenGenerator{}
}
