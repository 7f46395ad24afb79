package service

import (
	"io"
	"os"
	"time"
)

// FileStore abstracts the upload filesystem so services can be tested
// without touching disk.
type FileStore interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	Path(filename string) string
}

// DownloadSigner issues and validates signed download tokens.
type DownloadSigner interface {
	Generate(recordID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (recordID, relPath string, expiresAt time.Time, err error)
}

// UploadRecorder is the metrics hook services use to count uploads.
type UploadRecorder interface {
	RecordUpload(kind string)
}
