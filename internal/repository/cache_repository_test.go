package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "")
	ctx := context.Background()

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "account:1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "account:1", map[string]string{"id": "1"}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "account:1"))
}

func TestCacheRepositoryKeyNamespace(t *testing.T) {
	assert.Equal(t, "review-desk:account:1", NewCacheRepository(nil, "").Key("account:1"))
	assert.Equal(t, "staging:account:1", NewCacheRepository(nil, "staging").Key("account:1"))
}
