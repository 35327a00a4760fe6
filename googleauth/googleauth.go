package googleauth

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/recruitkit/recruitkit/config"
)

// Options builds the client options for a Google API service from the
// configured credentials: an inline JSON blob takes precedence over a
// file path; with neither, application default credentials apply.
func Options(ctx context.Context, cfg config.GoogleConfig, scopes ...string) ([]option.ClientOption, error) {
	var blob []byte
	switch {
	case cfg.Credentials != "":
		blob = []byte(cfg.Credentials)
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("google credentials: %w", err)
		}
		blob = b
	default:
		return []option.ClientOption{option.WithScopes(scopes...)}, nil
	}

	creds, err := google.CredentialsFromJSON(ctx, blob, scopes...)
	if err != nil {
		return nil, fmt.Errorf("google credentials: %w", err)
	}
	return []option.ClientOption{option.WithCredentials(creds)}, nil
}
