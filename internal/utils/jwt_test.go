package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestNewAccessTokenClaims(t *testing.T) {
    access, err := NewAccessToken("secret", 7, "ADMIN", 15)
    require.NoError(t, err)
    require.NotEmpty(t, access.Token)

    parsed, err := jwt.Parse(access.Token, func(tok *jwt.Token) (any, error) {
        assert.Equal(t, jwt.SigningMethodHS256, tok.Method)
        return []byte("secret"), nil
    })
    require.NoError(t, err)
    require.True(t, parsed.Valid)

    claims, ok := parsed.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.Equal(t, float64(7), claims["sub"])
    assert.Equal(t, "ADMIN", claims["role"])
    assert.Equal(t, float64(access.Exp.Unix()), claims["exp"])
}

func TestNewAccessTokenExpiry(t *testing.T) {
    access, err := NewAccessToken("secret", 7, "CLIENT", 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), access.Exp, 5*time.Second)
}

func TestNewAccessTokenWrongSecretFails(t *testing.T) {
    access, err := NewAccessToken("secret", 7, "CLIENT", 15)
    require.NoError(t, err)

    _, err = jwt.Parse(access.Token, func(*jwt.Token) (any, error) {
        return []byte("other"), nil
    })
    assert.Error(t, err)
}
