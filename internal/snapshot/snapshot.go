// Package snapshot is the local key -> string store that survives restarts. It remembers
// the signed-in identity, the last view, and offline copies of the catalog and goals.
// Values carry no version; a value that no longer decodes is treated as absent.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
)

// Port is the persistence boundary injected into session stores.
type Port interface {
	// Load returns the stored value and whether the key exists.
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Well-known keys.
const (
	KeyCurrentUser = "currentUser"
	KeyCurrentView = "currentView"
	KeyCatalog     = "catalog"
	KeyCategories  = "categories"
)

// GoalsKey is the key of one member's goals.
func GoalsKey(memberID string) string {
	return "goals_" + memberID
}

type prefixed struct {
	port   Port
	prefix string
}

// WithPrefix namespaces every key of port, e.g. per signed-in identity.
func WithPrefix(port Port, prefix string) Port {
	return &prefixed{port: port, prefix: prefix + ":"}
}

func (p *prefixed) Load(ctx context.Context, key string) (string, bool, error) {
	return p.port.Load(ctx, p.prefix+key)
}

func (p *prefixed) Save(ctx context.Context, key, value string) error {
	return p.port.Save(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.port.Delete(ctx, p.prefix+key)
}

// SaveJSON serializes v under key.
func SaveJSON(ctx context.Context, port Port, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return port.Save(ctx, key, string(b))
}

// LoadJSON decodes the value under key into v. It reports false when the key is
// missing or holds something that does not decode.
func LoadJSON(ctx context.Context, port Port, key string, v any) (bool, error) {
	raw, ok, err := port.Load(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, nil
	}
	return true, nil
}
