// Package origin resolves a template reference ("originId:templateName")
// to a fetchable archive URL, fetches the bytes (consulting a byte cache
// when available), and stores per-origin credentials in the OS keyring
// instead of plaintext config. Grounded on the teacher's go.mod carrying
// zalando/go-keyring unexercised by any retained package; wired here for
// the credential-storage concern spec.md §6 leaves as an underspecified
// "origin: map" contract.
package origin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

// DefaultOriginID is used when a template reference carries no explicit
// "originId:" prefix.
const DefaultOriginID = "github"

// keyringService namespaces this package's keyring entries from any other
// application sharing the same OS keyring.
const keyringService = "dollie"

// FetchTarget is an OriginHandler's resolved location for a template
// archive.
type FetchTarget struct {
	URL     string
	Headers map[string]string
}

// Handler resolves a template name (plus any per-origin config/credentials)
// to a FetchTarget.
type Handler func(templateName string, config map[string]any) (FetchTarget, error)

// Registry holds the built-in origins (github, gitlab) plus any additional
// origins supplied in configuration, and the override handler if one was
// supplied.
type Registry struct {
	handlers map[string]Handler
	override Handler
}

// NewRegistry returns a Registry seeded with the built-in github/gitlab
// origins, plus any additional Origins appended by configuration.
func NewRegistry(extra map[string]Handler) *Registry {
	r := &Registry{handlers: map[string]Handler{
		"github": githubHandler,
		"gitlab": gitlabHandler,
	}}
	for name, h := range extra {
		r.handlers[name] = h
	}
	return r
}

// SetOverride installs an originHandler that short-circuits lookup
// entirely, per spec.md §6's "originHandler: fn" configuration key.
func (r *Registry) SetOverride(h Handler) {
	r.override = h
}

// Split parses a templateReference into (originId, templateName), per
// spec.md §4.6 step 2: split on ":", defaulting originId to "github" when
// there is no prefix.
func Split(templateReference string) (originID, templateName string) {
	if idx := strings.Index(templateReference, ":"); idx >= 0 {
		return templateReference[:idx], templateReference[idx+1:]
	}
	return DefaultOriginID, templateReference
}

// Resolve looks up the handler for originID (or the override, if set) and
// invokes it for templateName. Returns a Context-kind error (per spec.md
// §7) when originID is unknown and no override is installed.
func (r *Registry) Resolve(originID, templateName string, config map[string]any) (FetchTarget, error) {
	if r.override != nil {
		return r.override(templateName, config)
	}
	h, ok := r.handlers[originID]
	if !ok {
		return FetchTarget{}, fmt.Errorf("origin: unknown origin %q", originID)
	}
	target, err := h(templateName, config)
	if err != nil {
		return FetchTarget{}, fmt.Errorf("origin: resolve %q: %w", originID, err)
	}
	if target.URL == "" {
		return FetchTarget{}, fmt.Errorf("origin: handler for %q returned no url", originID)
	}
	return target, nil
}

func githubHandler(templateName string, config map[string]any) (FetchTarget, error) {
	ref := "main"
	if v, ok := config["ref"].(string); ok && v != "" {
		ref = v
	}
	target := FetchTarget{
		URL: fmt.Sprintf("https://github.com/%s/archive/refs/heads/%s.tar.gz", templateName, ref),
	}
	if token, ok := LoadToken("github"); ok {
		target.Headers = map[string]string{"Authorization": "Bearer " + token}
	}
	return target, nil
}

func gitlabHandler(templateName string, config map[string]any) (FetchTarget, error) {
	ref := "main"
	if v, ok := config["ref"].(string); ok && v != "" {
		ref = v
	}
	target := FetchTarget{
		URL: fmt.Sprintf("https://gitlab.com/%s/-/archive/%s/%s.tar.gz", templateName, ref, ref),
	}
	if token, ok := LoadToken("gitlab"); ok {
		target.Headers = map[string]string{"PRIVATE-TOKEN": token}
	}
	return target, nil
}

// StoreToken saves a credential for originID in the OS keyring.
func StoreToken(originID, token string) error {
	if err := keyring.Set(keyringService, originID, token); err != nil {
		return fmt.Errorf("origin: store token for %q: %w", originID, err)
	}
	return nil
}

// LoadToken retrieves a previously stored credential for originID. A
// missing entry (the common case for an unauthenticated origin) is
// reported as ok=false rather than an error.
func LoadToken(originID string) (token string, ok bool) {
	token, err := keyring.Get(keyringService, originID)
	if err != nil {
		return "", false
	}
	return token, true
}

// DeleteToken removes a stored credential for originID, if any.
func DeleteToken(originID string) error {
	if err := keyring.Delete(keyringService, originID); err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("origin: delete token for %q: %w", originID, err)
	}
	return nil
}

// FetchTimeout is the default HTTP client timeout for archive fetches, per
// spec.md §5 ("Timeouts apply only to archive fetch... default 90s").
const FetchTimeout = 90 * time.Second

// Cache is the byte-level archive cache consulted before a fetch and
// populated after one, per spec.md §6's getCache/setCache keys.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte) error
}

// Fetch retrieves target's archive bytes, consulting cache first when one
// is supplied. A non-2xx response or transport error is a LoaderFailure
// per spec.md §7.
func Fetch(ctx context.Context, client *http.Client, target FetchTarget, cache Cache) ([]byte, error) {
	if cache != nil {
		if data, ok := cache.Get(target.URL); ok {
			return data, nil
		}
	}

	if client == nil {
		client = &http.Client{Timeout: FetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("origin: build request: %w", err)
	}
	for k, v := range target.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("origin: fetch %s: %w", target.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("origin: fetch %s: unexpected status %s", target.URL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("origin: read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("origin: fetch %s: empty archive", target.URL)
	}

	if cache != nil {
		_ = cache.Set(target.URL, data)
	}

	return data, nil
}
