package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ServerConfiguration contains the http server settings
type ServerConfiguration struct {
	Port    int
	Address string
}

// DatabaseConfiguration contains the settings required to connect to a database
type DatabaseConfiguration struct {
	Type string
	DSN  string `json:"-"`
}

// FrontendConfiguration points to the participant-facing web frontend,
// used to build access deep links
type FrontendConfiguration struct {
	BaseURL string `mapstructure:"base-url"`
}

// StorageConfiguration configures the object storage used for
// slide decks, photos and branding assets
type StorageConfiguration struct {
	Root          string
	PublicURL     string        `mapstructure:"public-url"`
	SigningKey    string        `mapstructure:"signing-key"    json:"-"`
	PresignExpiry time.Duration `mapstructure:"presign-expiry"`
}

// ConversionConfiguration configures the external slide-to-thumbnail
// conversion service
type ConversionConfiguration struct {
	Enable        bool
	Endpoint      string
	APIKey        string `mapstructure:"api-key"        json:"-"`
	WebhookSecret string `mapstructure:"webhook-secret" json:"-"`
}

// SMTPConfiguration contains the email settings
type SMTPConfiguration struct {
	Enable   bool
	Host     string
	Port     int
	Username string
	Password string `json:"-"`
	// DisplayName will be displayed as email sender
	DisplayName string `mapstructure:"display-name"`
	// Address is the sender address
	Address string
}

// JWTConfiguration holds the admin bearer token settings
type JWTConfiguration struct {
	Algorithm string        `mapstructure:"alg"`
	Issuer    string        `mapstructure:"iss"`
	Audience  []string      `mapstructure:"aud"`
	Expiry    time.Duration `mapstructure:"exp"`

	HMACSigningKey     string `mapstructure:"hmac-signing-key"      json:"-"`
	HMACSigningKeyFile string `mapstructure:"hmac-signing-key-file"`

	RSAPrivateKey string `mapstructure:"rsa-private-key" json:"-"`
	RSAPublicKey  string `mapstructure:"rsa-public-key"  json:"-"`

	RSAPrivateKeyFile string `mapstructure:"rsa-private-key-file"`
	RSAPublicKeyFile  string `mapstructure:"rsa-public-key-file"`
}

// BehaviourConfiguration configures how the service will behave
type BehaviourConfiguration struct {
	// Name of the service, shows up in emails
	Name string
	// DefaultTokenExpiry is used when the CLI issues tokens without
	// an explicit expiry
	DefaultTokenExpiry time.Duration `mapstructure:"default-token-expiry"`
	// ValidateRateLimit caps requests per minute and client ip
	// on the public validate endpoint
	ValidateRateLimit int `mapstructure:"validate-rate-limit"`
}

// PlanConfiguration is a single subscription tier
type PlanConfiguration struct {
	MaxEvents    int  `mapstructure:"max-events"`
	MaxUploadMB  int  `mapstructure:"max-upload-mb"`
	PhotoGallery bool `mapstructure:"photo-gallery"`
}

// CORSConfiguration very basic cors configuration
type CORSConfiguration struct {
	AllowCredentials bool     `mapstructure:"allow-credentials"`
	AllowedMethods   []string `mapstructure:"allowed-methods"`
	AllowedOrigins   []string `mapstructure:"allowed-origins"`
}

// ManageEndpointConfiguration configures the authenticated agency surface
type ManageEndpointConfiguration struct {
	CORS *CORSConfiguration
}

// Configuration holds the entire stagepass configuration
type Configuration struct {
	Server         *ServerConfiguration         `mapstructure:"server"`
	Database       *DatabaseConfiguration       `mapstructure:"database"`
	Frontend       *FrontendConfiguration       `mapstructure:"frontend"`
	Storage        *StorageConfiguration        `mapstructure:"storage"`
	Conversion     *ConversionConfiguration     `mapstructure:"conversion"`
	SMTP           *SMTPConfiguration           `mapstructure:"smtp"`
	JWT            *JWTConfiguration            `mapstructure:"jwt"`
	Behaviour      *BehaviourConfiguration      `mapstructure:"behaviour"`
	Plans          map[string]PlanConfiguration `mapstructure:"plans"`
	ManageEndpoint *ManageEndpointConfiguration `mapstructure:"manage-endpoint"`
}

// Plan returns the plan configuration for the given tier name
func (c *Configuration) Plan(name string) (PlanConfiguration, bool) {
	p, ok := c.Plans[name]
	return p, ok
}

// Validate does some basic validation of the config file and tries to be
// helpful on misconfiguration
func (c *Configuration) Validate() error {
	if c.Server == nil {
		return errors.New("no server configuration found")
	}
	if c.Database == nil {
		return errors.New("no database configuration found")
	}
	if c.Frontend == nil || c.Frontend.BaseURL == "" {
		return errors.New("frontend.base-url is required, access links cannot be built without it")
	}
	if c.Storage == nil {
		return errors.New("no storage configuration found")
	}
	if c.Storage.SigningKey == "" {
		return errors.New("storage.signing-key is required for presigned upload and download urls")
	}
	if c.JWT == nil {
		return errors.New("no JWT configuration found")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
		if c.JWT.HMACSigningKey == "" && c.JWT.HMACSigningKeyFile == "" {
			return errors.New(
				"when using jwt.alg HS256, HS384, HS512 you need to define either hmac-signing-key or hmac-signing-key-file",
			)
		}
	case "RS256", "RS384", "RS512":
		if c.JWT.RSAPublicKey == "" && c.JWT.RSAPublicKeyFile == "" {
			return errors.New(
				"when using jwt.alg RS256, RS384, RS512 you need to define either rsa-public-key or rsa-public-key-file",
			)
		}
		if c.JWT.RSAPrivateKey == "" && c.JWT.RSAPrivateKeyFile == "" {
			return errors.New(
				"when using jwt.alg RS256, RS384, RS512 you need to define either rsa-private-key or rsa-private-key-file",
			)
		}
	default:
		return fmt.Errorf("unsupported jwt.alg %q", c.JWT.Algorithm)
	}
	if c.Behaviour == nil {
		return errors.New("no behaviour configuration found")
	}
	if len(c.Plans) == 0 {
		return errors.New("no subscription plans configured")
	}
	if c.Conversion != nil && c.Conversion.Enable {
		if c.Conversion.Endpoint == "" {
			return errors.New("conversion.endpoint is required when conversion is enabled")
		}
		if c.Conversion.WebhookSecret == "" {
			return errors.New("conversion.webhook-secret is required when conversion is enabled")
		}
	}
	if c.SMTP != nil && c.SMTP.Enable {
		if c.SMTP.Host == "" || c.SMTP.Address == "" {
			return errors.New("smtp.host and smtp.address are required when smtp is enabled")
		}
	}
	return nil
}

// DebugMode returns true if the SPS_DEBUG_MODE variable is set
func (*Configuration) DebugMode() bool {
	if r := os.Getenv("SPS_DEBUG_MODE"); r == "true" {
		return true
	}
	return false
}
