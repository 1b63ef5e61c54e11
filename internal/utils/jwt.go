package utils // package utils provides helper functions for token creation, hashing and identifiers

import (
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Staff send it in the Authorization header
// when calling admin and guard endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a staff user.  Besides
// the standard subject (sub), expiration (exp) and issued at (iat) claims
// the token carries the user's role and the college the account belongs
// to, so every protected request is pinned to exactly one tenant.
func NewAccessToken(secret, userID, role, collegeID string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":     userID,
        "role":    role,
        "college": collegeID,
        "exp":     exp.Unix(),
        "iat":     now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
