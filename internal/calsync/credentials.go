package calsync

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/coachly/call-scheduler/internal/models"
)

// CredentialStore é o colaborador de integração: o núcleo lê as
// credenciais da organização e só escreve de volta no refresh.
type CredentialStore interface {
	ListCredentials(
		ctx context.Context,
		organizationID uint,
	) ([]models.IntegrationCredential, error)

	UpdateCredentialToken(
		ctx context.Context,
		cred *models.IntegrationCredential,
	) error

	GetExternalRef(
		ctx context.Context,
		eventID uint,
		provider string,
	) (*models.ExternalEventRef, error)

	UpsertExternalRef(
		ctx context.Context,
		ref *models.ExternalEventRef,
	) error

	DeleteExternalRef(
		ctx context.Context,
		eventID uint,
		provider string,
	) error
}

// tokenSource devolve um TokenSource que renova o access token via
// refresh token e persiste a renovação pelo callback do store.
func tokenSource(
	ctx context.Context,
	cfg *oauth2.Config,
	cred *models.IntegrationCredential,
	store CredentialStore,
) oauth2.TokenSource {

	tok := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		Expiry:       cred.TokenExpiry,
	}

	return oauth2.ReuseTokenSource(tok, &persistingSource{
		src:   cfg.TokenSource(ctx, tok),
		cred:  cred,
		store: store,
	})
}

type persistingSource struct {
	src   oauth2.TokenSource
	cred  *models.IntegrationCredential
	store CredentialStore
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	if tok.AccessToken != s.cred.AccessToken {
		s.cred.AccessToken = tok.AccessToken
		if tok.RefreshToken != "" {
			s.cred.RefreshToken = tok.RefreshToken
		}
		s.cred.TokenExpiry = tok.Expiry

		// best-effort: perder a persistência só força outro refresh
		_ = s.store.UpdateCredentialToken(context.Background(), s.cred)
	}

	return tok, nil
}
