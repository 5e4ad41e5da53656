package auth

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	b64 "encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stagepass/stagepass/config"
	"go.uber.org/zap"
)

const (
	// ClaimEmail is the claim storing the admins email
	ClaimEmail = "email"
	// ClaimTenantID is the claim scoping every manage request to a tenant
	ClaimTenantID = "tenant_id"

	algHS256 = "HS256"
	algHS384 = "HS384"
	algHS512 = "HS512"

	algRS256 = "RS256"
	algRS384 = "RS384"
	algRS512 = "RS512"
)

// Issuer mints and signs the jwt bearer tokens used on the manage api
type Issuer struct {
	log          *zap.Logger
	privateKey   jwk.Key
	publicKey    jwk.Key
	alg          jwa.SignatureAlgorithm
	aud          []string
	expiry       time.Duration
	iss          string
	parseOptions []jwt.ParseOption
	kid          string
}

func checkForWeakHMAC(log *zap.Logger, alg string, key string) {
	if alg == algHS256 && len(key) <= 31 {
		log.Warn("weak secret, consider chossing another secret")
	}
	if alg == algHS384 && len(key) <= 39 {
		log.Warn("weak secret, consider chossing another secret")
	}
	if alg == algHS512 && len(key) <= 57 {
		log.Warn("weak secret, consider chossing another secret")
	}
}

func parseRSAPrivateKey(key []byte) (*rsa.PrivateKey, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("supplied private key is empty")
	}
	pemLoaded, _ := pem.Decode(key)
	if pemLoaded == nil || pemLoaded.Type != "RSA PRIVATE KEY" {
		return nil, errors.New("supplied private key is not a RSA private key")
	}
	var err error
	var parsedKey interface{}
	if parsedKey, err = x509.ParsePKCS1PrivateKey(pemLoaded.Bytes); err != nil {
		if parsedKey, err = x509.ParsePKCS8PrivateKey(pemLoaded.Bytes); err != nil {
			return nil, errors.New("could not parse RSA private key")
		}
	}
	privateKey, ok := parsedKey.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("could not parse RSA private key")
	}
	return privateKey, nil
}

func parseRSAPublicKey(key []byte) (*rsa.PublicKey, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("supplied public key is empty")
	}
	pemLoaded, _ := pem.Decode(key)
	if pemLoaded == nil {
		return nil, errors.New("could not parse RSA public key")
	}
	var parsedKey interface{}
	var err error
	switch pemLoaded.Type {
	case "RSA PUBLIC KEY":
		parsedKey, err = x509.ParsePKCS1PublicKey(pemLoaded.Bytes)
	case "PUBLIC KEY":
		parsedKey, err = x509.ParsePKIXPublicKey(pemLoaded.Bytes)
	default:
		return nil, fmt.Errorf("supplied public key is not a public key, got %s", pemLoaded.Type)
	}
	if err != nil {
		return nil, errors.New("could not parse RSA public key")
	}
	pubKey, ok := parsedKey.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("could not parse RSA public key")
	}
	return pubKey, nil
}

// NewIssuer builds the issuer from the jwt configuration section.
// Key material problems surface on startup, this is the only place
// that is allowed to panic.
func NewIssuer(log *zap.Logger, cfg *config.JWTConfiguration) *Issuer {
	var privateKeyJwk jwk.Key
	var publicKeyJwk jwk.Key
	kid := ""
	options := make([]jwt.ParseOption, 0)
	options = append(options, jwt.WithValidate(true))
	switch cfg.Algorithm {
	case algHS256, algHS384, algHS512:
		privateKeyJwk, options = loadHMACKey(cfg, log, options)
	case algRS256, algRS384, algRS512:
		var err error
		var privateKey *rsa.PrivateKey
		var pubParsed *rsa.PublicKey
		kid, privateKey, pubParsed = loadRSAKeys(cfg, log)
		privateKeyJwk, err = jwk.FromRaw(privateKey)
		if err != nil {
			log.Error("unable to process private key")
			panic("unable to process private key")
		}
		publicKeyJwk, err = jwk.FromRaw(pubParsed)
		if err != nil {
			log.Error("unable to process public key")
			panic("unable to process public key")
		}
		_ = publicKeyJwk.Set("alg", cfg.Algorithm)
		_ = publicKeyJwk.Set("use", "sig")
		_ = publicKeyJwk.Set("kid", kid)
		_ = privateKeyJwk.Set("kid", kid)
		sha, err := publicKeyJwk.Thumbprint(crypto.SHA1)
		if err == nil {
			_ = publicKeyJwk.Set("x5t", b64.StdEncoding.EncodeToString(sha))
		}
		options = append(options, jwt.WithKey(jwa.SignatureAlgorithm(cfg.Algorithm), publicKeyJwk))
	default:
		log.Error("invalid jwt.alg defined. Possible values: HS256,HS384,HS512,RS256,RS384,RS512")
		panic("invalid jwt.alg defined. Possible values: HS256,HS384,HS512,RS256,RS384,RS512")
	}
	_ = privateKeyJwk.Set("alg", cfg.Algorithm)
	_ = privateKeyJwk.Set("use", "sig")
	sha, err := privateKeyJwk.Thumbprint(crypto.SHA1)
	if err == nil {
		_ = privateKeyJwk.Set("x5t", b64.StdEncoding.EncodeToString(sha))
	}
	return &Issuer{
		log:          log,
		alg:          jwa.SignatureAlgorithm(cfg.Algorithm),
		privateKey:   privateKeyJwk,
		aud:          cfg.Audience,
		expiry:       cfg.Expiry,
		iss:          cfg.Issuer,
		parseOptions: options,
		publicKey:    publicKeyJwk,
		kid:          kid,
	}
}

func loadRSAKeys(
	cfg *config.JWTConfiguration,
	log *zap.Logger,
) (string, *rsa.PrivateKey, *rsa.PublicKey) {
	var privateKey []byte
	var publicKey []byte
	if len(cfg.RSAPrivateKey) > 0 {
		privateKey = []byte(cfg.RSAPrivateKey)
	} else if len(cfg.RSAPrivateKeyFile) > 0 {
		content, err := os.ReadFile(cfg.RSAPrivateKeyFile)
		if err != nil {
			log.Error("could not load key file", zap.String("file", cfg.RSAPrivateKeyFile), zap.Error(err))
			panic("could not load key file")
		}
		if len(content) == 0 {
			log.Error("read empty private key file", zap.String("file", cfg.RSAPrivateKeyFile))
			panic("read empty private key file")
		}
		privateKey = content
	} else {
		log.Error("no RSA private key defined, either set jwt.rsa-private-key or jwt.rsa-private-key-file")
		panic("no RSA private key defined")
	}
	priv, err := parseRSAPrivateKey(privateKey)
	if err != nil {
		log.Error("unable to process supplied private key", zap.Error(err))
		panic("unable to process supplied private key")
	}
	if len(cfg.RSAPublicKey) > 0 {
		publicKey = []byte(cfg.RSAPublicKey)
	} else if len(cfg.RSAPublicKeyFile) > 0 {
		content, err := os.ReadFile(cfg.RSAPublicKeyFile)
		if err != nil {
			log.Error("could not load key file", zap.String("file", cfg.RSAPublicKeyFile), zap.Error(err))
			panic("could not load key file")
		}
		publicKey = content
	} else {
		log.Error("no RSA public key defined, either set jwt.rsa-public-key or jwt.rsa-public-key-file")
		panic("no RSA public key defined")
	}
	kid := fmt.Sprintf("%x", crc32.Checksum(publicKey, crc32.IEEETable))
	pubParsed, err := parseRSAPublicKey(publicKey)
	if err != nil {
		log.Error("unable to process supplied public key", zap.Error(err))
		panic("invalid public key")
	}
	priv.PublicKey = *pubParsed
	return kid, priv, pubParsed
}

func loadHMACKey(
	cfg *config.JWTConfiguration,
	log *zap.Logger,
	options []jwt.ParseOption,
) (jwk.Key, []jwt.ParseOption) {
	var privateKey []byte
	// direct key takes precedence
	if len(cfg.HMACSigningKey) > 0 {
		checkForWeakHMAC(log, cfg.Algorithm, cfg.HMACSigningKey)
		privateKey = []byte(cfg.HMACSigningKey)
	} else if len(cfg.HMACSigningKeyFile) > 0 {
		content, err := os.ReadFile(cfg.HMACSigningKeyFile)
		if err != nil {
			log.Error("could not load key file", zap.String("file", cfg.HMACSigningKeyFile), zap.Error(err))
			panic("could not load key file")
		}
		checkForWeakHMAC(log, cfg.Algorithm, string(content))
		privateKey = content
	} else {
		log.Error("no HMAC key defined, either set jwt.hmac-signing-key or jwt.hmac-signing-key-file")
		panic("no HMAC key defined")
	}
	privateKeyJwk, err := jwk.FromRaw(privateKey)
	if err != nil {
		log.Error("unable to process symetric key", zap.Error(err))
		panic("unable to process symetric key")
	}
	options = append(options, jwt.WithKey(jwa.SignatureAlgorithm(cfg.Algorithm), privateKeyJwk))
	return privateKeyJwk, options
}

// IssueAdminToken builds the manage api bearer token for a signed in
// administrator, tenant scoping rides along as a claim
func (t *Issuer) IssueAdminToken(
	adminID uuid.UUID,
	email string,
	tenantID int,
) (jwt.Token, error) {
	tokenBuilder := jwt.NewBuilder()
	tokenBuilder.
		Audience(t.aud).
		IssuedAt(time.Now().UTC()).
		Expiration(time.Now().UTC().Add(t.expiry)).
		Subject(adminID.String()).
		Issuer(t.iss).
		Claim(ClaimEmail, email).
		Claim(ClaimTenantID, tenantID)
	return tokenBuilder.Build()
}

func (t *Issuer) Sign(token jwt.Token) ([]byte, error) {
	return jwt.Sign(token, jwt.WithKey(t.alg, t.privateKey))
}

func (t *Issuer) Alg() string {
	return string(t.alg)
}

func (t *Issuer) Audience() []string {
	return t.aud
}

func (t *Issuer) Issuer() string {
	return t.iss
}

func (t *Issuer) PrivateKey() jwk.Key {
	return t.privateKey
}

// VerificationKey returns the key the api middleware verifies with,
// the public key for RSA and the shared secret for HMAC
func (t *Issuer) VerificationKey() jwk.Key {
	if t.publicKey != nil {
		return t.publicKey
	}
	return t.privateKey
}

func (t *Issuer) KeyID() string {
	return t.kid
}
