package utils // utils provides helpers for password hashing and token creation

import (
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// AccessToken represents a signed JWT access token along with its
// expiry. The Token field contains the JWT string; Exp stores the UTC
// expiration timestamp. Access tokens are short-lived and sent in the
// Authorization header when calling protected endpoints. The store has
// no session table, so the token is the only login artifact.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a client. It takes
// the signing secret, the client ID, the role (CLIENT or ADMIN) and a
// TTL in minutes. The JWT carries standard claims: subject (sub), role,
// expiration (exp) and issued at (iat).
func NewAccessToken(secret string, clientID uint64, role string, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  clientID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
