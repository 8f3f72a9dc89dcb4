package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// TokenSource supplies the bearer token attached to authenticated calls.
// An empty token means the call goes out without Authorization.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, typically from configuration.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) {
	return strings.TrimSpace(string(t)), nil
}

// FileToken reads the token from a session file on every call so a token
// refreshed by another process is picked up without restarting.
type FileToken struct {
	Path string
}

// Token implements TokenSource. A missing file yields no token.
func (f FileToken) Token(context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
