// Copyright (c) 2026 Triibes. All rights reserved.

// Package sec provides cryptographic primitives and token handling.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT verification, capability
// token minting) from the domain logic. Author identity is issued by the
// platform's central auth service; Lyra only verifies the RS256 signature with
// the published public key and never holds the private key.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside an author's JWT.
//
// # Why custom claims?
//
// By embedding the UserID and Username directly inside the JWT, the
// authentication middleware can reconstruct the acting author WITHOUT querying
// the database on every single API request. The username doubles as the
// author display name used in invitation emails.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
}

// TokenVerifier validates author JWTs using the auth service's RS256 public key.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewTokenVerifier creates a TokenVerifier.
// It reads the RSA public key from the provided filesystem path.
func NewTokenVerifier(publicKeyPath, issuer string) (*TokenVerifier, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenVerifier{
		publicKey: publicKey,
		issuer:    issuer,
	}, nil
}

// VerifyToken parses and validates a JWT string, returning its claims.
//
// # Checks
//
//  1. Signature validity against the RS256 public key.
//  2. Standard time-based claims (exp, nbf).
//  3. Issuer match against the configured auth issuer.
func (verifier *TokenVerifier) VerifyToken(tokenStr string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return verifier.publicKey, nil
		},
		jwt.WithIssuer(verifier.issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: token verification failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("sec: token is invalid")
	}

	return claims, nil
}
