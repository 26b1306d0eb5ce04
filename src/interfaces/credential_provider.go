package interfaces

import "context"

// -----------------------------------------------------------------------------
// ICredentialProvider supplies the quote API key.
// -----------------------------------------------------------------------------

type ICredentialProvider interface {

	// APIKey returns a non-empty key or a credential-missing error.
	APIKey(ctx context.Context) (string, error)
}
