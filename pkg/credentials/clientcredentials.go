package credentials

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials returns a token source for a service account with a
// client secret, using the OAuth client credentials grant.
func ClientCredentials(ctx context.Context, issuer, clientID, clientSecret string, scopes ...string) (oauth2.TokenSource, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errors.New("credentials: client id and secret are required")
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	cfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     TokenURL(issuer),
		Scopes:       scopes,
	}
	return cfg.TokenSource(ctx), nil
}
