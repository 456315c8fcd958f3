package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

const maxListKeyLength = 120

// KeyBuilder renders namespaced keys of the form prefix:namespace:part1:part2
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a KeyBuilder. An empty prefix produces keys starting at the namespace.
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{prefix: normalizePart(prefix)}
}

// Key joins the namespace and parts. Parts are trimmed and lowercased; empty parts are skipped.
func (b *KeyBuilder) Key(namespace string, parts ...string) string {
	segments := make([]string, 0, len(parts)+2)
	if b.prefix != "" {
		segments = append(segments, b.prefix)
	}
	if ns := normalizePart(namespace); ns != "" {
		segments = append(segments, ns)
	}
	for _, p := range parts {
		if p = normalizePart(p); p != "" {
			segments = append(segments, p)
		}
	}
	return strings.Join(segments, ":")
}

// Namespace returns the prefix shared by every key in namespace, for DeleteByPrefix
func (b *KeyBuilder) Namespace(namespace string) string {
	return b.Key(namespace) + ":"
}

// ListKey renders a stable key for a list query. Params are URL-encoded and
// sorted by name so distinct queries never share a key; long renderings are hashed.
func (b *KeyBuilder) ListKey(namespace string, params map[string]string) string {
	values := url.Values{}
	for name, value := range params {
		if v := normalizePart(value); v != "" {
			values.Set(normalizePart(name), v)
		}
	}
	query := values.Encode()
	if query == "" {
		query = "all"
	}
	if len(query) > maxListKeyLength {
		sum := sha256.Sum256([]byte(query))
		query = hex.EncodeToString(sum[:16])
	}
	return b.Key(namespace, "list", query)
}

func normalizePart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// namespaceOf extracts the namespace segment from a key built by KeyBuilder
func namespaceOf(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) >= 2 {
		return parts[1]
	}
	return parts[0]
}
