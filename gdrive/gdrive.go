// Package gdrive uploads resume files to Google Drive under a configured
// parent folder and hands back a link-readable view URL.
package gdrive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/recruitkit/recruitkit/config"
	"github.com/recruitkit/recruitkit/googleauth"
	"github.com/recruitkit/recruitkit/log"
)

// ErrNoFolder means DRIVE_FOLDER_ID is not configured; callers fall back
// to local storage.
var ErrNoFolder = errors.New("gdrive: no parent folder configured")

// UploadError wraps any Drive-side failure so callers can distinguish it
// from configuration problems.
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string { return fmt.Sprintf("gdrive: %s: %s", e.Op, e.Err) }
func (e *UploadError) Unwrap() error { return e.Err }

// Uploader is a process-wide client. The Drive service is built lazily on
// first use and never rebuilt; credential changes require a restart.
type Uploader struct {
	cfg config.GoogleConfig

	once    sync.Once
	svc     *drive.Service
	initErr error
}

func NewUploader(cfg config.GoogleConfig) *Uploader {
	return &Uploader{cfg: cfg}
}

func (u *Uploader) service(ctx context.Context) (*drive.Service, error) {
	u.once.Do(func() {
		opts, err := googleauth.Options(context.Background(), u.cfg, drive.DriveScope)
		if err != nil {
			u.initErr = err
			return
		}
		u.svc, u.initErr = drive.NewService(context.Background(), opts...)
	})
	return u.svc, u.initErr
}

// Upload creates the file under the configured folder and returns its view
// URL. The read-everyone permission grant is best-effort; a failed metadata
// read falls back to the synthesized /file/d/<id>/view URL.
func (u *Uploader) Upload(ctx context.Context, data []byte, name, mimeType string) (string, error) {
	if u.cfg.DriveFolderID == "" {
		return "", ErrNoFolder
	}

	svc, err := u.service(ctx)
	if err != nil {
		return "", &UploadError{"init", err}
	}

	meta := &drive.File{
		Name:    name,
		Parents: []string{u.cfg.DriveFolderID},
	}
	media := []googleapi.MediaOption{}
	if mimeType != "" {
		media = append(media, googleapi.ContentType(mimeType))
	}

	created, err := svc.Files.Create(meta).
		Media(bytes.NewReader(data), media...).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return "", &UploadError{"create", err}
	}

	_, err = svc.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		log.Warnf("gdrive.permit: %s", err)
	}

	got, err := svc.Files.Get(created.Id).Fields("webViewLink").Context(ctx).Do()
	if err != nil || got.WebViewLink == "" {
		if err != nil {
			log.Warnf("gdrive.metadata: %s", err)
		}
		return fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id), nil
	}
	return got.WebViewLink, nil
}
