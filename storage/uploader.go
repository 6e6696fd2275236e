package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the object store tournament snapshots are exported to.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// SnapshotKey is the object key of a tournament export taken at the given status.
func SnapshotKey(tournamentID, status string) string {
	return "tournaments/" + tournamentID + "/" + status + ".json"
}
