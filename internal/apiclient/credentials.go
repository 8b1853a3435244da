package apiclient

import (
	"os"
	"strings"
	"sync"

	"github.com/tao-philip/server-mcp/internal/endpoints"
)

// Credentials maps endpoint keys to secrets for the lifetime of the process.
// A Set is visible to every dispatch that starts after it returns.
type Credentials struct {
	mu      sync.RWMutex
	secrets map[string]string
}

// NewCredentials returns an empty store.
func NewCredentials() *Credentials {
	return &Credentials{secrets: make(map[string]string)}
}

// EnvVarName returns the environment variable consulted for key, e.g.
// OPENWEATHER_API_KEY.
func EnvVarName(key string) string {
	return strings.ToUpper(key) + "_API_KEY"
}

// LoadFromEnv seeds a credential for every endpoint that requires auth and has
// a non-empty <KEY>_API_KEY variable. A nil lookup uses os.LookupEnv. It
// returns the keys that were loaded.
func (c *Credentials) LoadFromEnv(reg *endpoints.Registry, lookup func(string) (string, bool)) []string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	var loaded []string
	for _, key := range reg.Keys() {
		ep, _ := reg.Lookup(key)
		if !ep.RequiresAuth {
			continue
		}
		if secret, ok := lookup(EnvVarName(key)); ok && secret != "" {
			c.Set(key, secret)
			loaded = append(loaded, key)
		}
	}
	return loaded
}

// Set stores or overwrites the secret for key. The secret is not validated.
func (c *Credentials) Set(key, secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.secrets[key] = secret
}

// Get returns the secret stored for key.
func (c *Credentials) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	secret, ok := c.secrets[key]
	return secret, ok
}
