package credentials

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/getfit/internal/common"
	"github.com/dmitrijs2005/getfit/internal/cryptox"
	"github.com/dmitrijs2005/getfit/internal/filex"
)

// DeviceKey derives the storage key from secret and a random per-device salt
// kept next to the database in dbPath+".salt". The salt is created on first
// use.
func DeviceKey(dbPath, secret string) ([]byte, error) {
	salt, err := filex.LoadOrCreate(dbPath+".salt", func() []byte {
		return common.GenerateRandByteArray(cryptox.SaltSize)
	})
	if err != nil {
		return nil, fmt.Errorf("load device salt: %w", err)
	}
	return cryptox.DeriveKey([]byte(secret), salt), nil
}

// AccessTokenSource reads the access token from a Repository on every call.
type AccessTokenSource struct {
	repo Repository
}

func NewAccessTokenSource(repo Repository) *AccessTokenSource {
	return &AccessTokenSource{repo: repo}
}

// AccessToken returns the stored access token, or "" when none is stored.
func (s *AccessTokenSource) AccessToken(ctx context.Context) (string, error) {
	b, err := s.repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
