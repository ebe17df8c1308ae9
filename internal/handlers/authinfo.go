package handlers

import (
	"net/http"

	"github.com/shipbid/apiserver/config"
)

// AuthInfoResponse is the OAuth client configuration blob frontends use to
// drive the authorization flow themselves. The client secret never appears
// here.
type AuthInfoResponse struct {
	Provider     string   `json:"provider"`
	ClientID     string   `json:"client_id"`
	AuthorizeURL string   `json:"authorize_url"`
	TokenURL     string   `json:"token_url"`
	RedirectURL  string   `json:"redirect_url"`
	Scopes       []string `json:"scopes"`
}

// AuthInfo serves the configured OAuth client settings.
func AuthInfo(cfg config.OAuthConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		scopes := cfg.Scopes
		if scopes == nil {
			scopes = []string{}
		}
		writeJSON(w, http.StatusOK, AuthInfoResponse{
			Provider:     cfg.Provider,
			ClientID:     cfg.ClientID,
			AuthorizeURL: cfg.AuthorizeURL,
			TokenURL:     cfg.TokenURL,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
		})
	}
}
