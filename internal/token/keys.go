package token

import (
	"crypto/rsa"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/husainasfak/QuickBite-auth-service/internal/apperror"
	"github.com/husainasfak/QuickBite-auth-service/internal/config"
)

// KeyMaterial holds the signing keys for the process lifetime: an RSA key
// pair for access tokens and a shared secret for refresh tokens. It is loaded
// once at startup and never rotated at runtime.
type KeyMaterial struct {
	private       *rsa.PrivateKey
	public        *rsa.PublicKey
	refreshSecret []byte
}

// NewKeyMaterial builds key material from an already parsed key pair. Used by
// tests that generate throwaway keys.
func NewKeyMaterial(private *rsa.PrivateKey, refreshSecret []byte) *KeyMaterial {
	return &KeyMaterial{private: private, public: &private.PublicKey, refreshSecret: refreshSecret}
}

// LoadKeyMaterial reads the RSA private key (inline PEM or file) and the
// refresh secret from config. Any failure here is a configuration error and
// must abort startup.
func LoadKeyMaterial(cfg config.Config) (*KeyMaterial, error) {
	pemBytes := []byte(cfg.PrivateKeyPEM)
	if len(pemBytes) == 0 {
		data, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, apperror.Wrap(apperror.KindConfiguration, "could not read private key file", err)
		}
		pemBytes = data
	}

	private, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindConfiguration, "could not parse RSA private key", err)
	}
	if cfg.RefreshSecret == "" {
		return nil, apperror.New(apperror.KindConfiguration, "refresh token secret is not configured")
	}

	return NewKeyMaterial(private, []byte(cfg.RefreshSecret)), nil
}

// Public exposes the verification key for the JWKS endpoint.
func (k *KeyMaterial) Public() *rsa.PublicKey { return k.public }
