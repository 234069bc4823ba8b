package github

import (
	"context"
	"net/http"
	"os"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// NewClient creates a new GitHub client using the provided token.
// If token is empty, it returns an unauthenticated client.
func NewClient(ctx context.Context, token string) *Client {
	var tc *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(tc)

	return &Client{
		client: client,
	}
}

// NewClientFromEnv creates a client authenticated with GITHUB_TOKEN.
// An unauthenticated client can read public data but cannot apply labels.
func NewClientFromEnv(ctx context.Context) *Client {
	return NewClient(ctx, os.Getenv("GITHUB_TOKEN"))
}

// HasToken reports whether GITHUB_TOKEN is set in the environment.
func HasToken() bool {
	return os.Getenv("GITHUB_TOKEN") != ""
}
