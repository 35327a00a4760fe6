package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/oauth"

	"github.com/recruitkit/recruitkit/config"
	"github.com/recruitkit/recruitkit/model"
	"github.com/recruitkit/recruitkit/store"
)

// ResumeUploader is the external object store for resume files.
type ResumeUploader interface {
	Upload(ctx context.Context, data []byte, name, mimeType string) (string, error)
}

// LocalUploader is the fallback sink when the object store fails.
type LocalUploader interface {
	Upload(r *http.Request, data []byte, name string) (string, error)
}

// SheetWriter mirrors intake rows to the configured spreadsheet.
type SheetWriter interface {
	EnsureTabWithHeaders(ctx context.Context, spreadsheetID, tabTitle string, schema []model.Question) ([]string, error)
	AppendRow(ctx context.Context, spreadsheetID, tabTitle string, values []string) error
	AppendGeneric(ctx context.Context, spreadsheetID string, values []string) error
}

type App struct {
	DB           *sql.DB
	BearerServer *oauth.BearerServer
	Config       config.Config

	Openings  *store.Openings
	Responses *store.Responses
	Drive     ResumeUploader
	Local     LocalUploader
	Sheets    SheetWriter
}
