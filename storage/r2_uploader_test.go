package storage

import (
	"context"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	base, err := url.Parse("https://cdn.example.com/exports/")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/exports/tournaments/t1/champion_decided.json",
		PublicURL(base, SnapshotKey("t1", "champion_decided")))
	assert.Equal(t, "https://cdn.example.com/exports/a.json", PublicURL(base, "/a.json"))
	assert.Empty(t, PublicURL(nil, "a.json"))
	assert.Empty(t, PublicURL(base, ""))
}

func TestNewCloudflareR2Uploader(t *testing.T) {
	cfg := CloudflareR2UploaderConfig{
		AccountID:       "acct",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "snapshots",
		PublicBaseURL:   "https://pub.example.com",
	}
	require.True(t, cfg.Enabled())

	uploader, err := NewCloudflareR2Uploader(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "https://pub.example.com/tournaments/t1/qualifiers_in_progress.json",
		uploader.GetPublicURL(SnapshotKey("t1", "qualifiers_in_progress")))

	cfg.BucketName = ""
	assert.False(t, cfg.Enabled())
	_, err = NewCloudflareR2Uploader(context.Background(), cfg, slog.Default())
	assert.ErrorIs(t, err, ErrInvalidR2Config)
}
