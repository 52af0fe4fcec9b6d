package token

import "github.com/go-jose/go-jose/v4"

const signingKeyID = "auth-service-rs256"

// JWKS builds the JSON Web Key Set document exposing the access-token
// verification key to other services.
func (k *KeyMaterial) JWKS() jose.JSONWebKeySet {
	return jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{
			{
				Key:       k.public,
				KeyID:     signingKeyID,
				Algorithm: "RS256",
				Use:       "sig",
			},
		},
	}
}
