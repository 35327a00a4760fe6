package gdrive

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

// LocalUploader is the fallback sink: files land in Dir and are served by
// the static /uploads route on the same host that received the submission.
type LocalUploader struct {
	Dir string
}

func (u *LocalUploader) Upload(r *http.Request, data []byte, name string) (string, error) {
	if err := os.MkdirAll(u.Dir, 0755); err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}

	path := filepath.Join(u.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("local upload: %w", err)
	}

	return fmt.Sprintf("%s://%s/uploads/%s", requestScheme(r), r.Host, url.PathEscape(name)), nil
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
