package storage

import (
	"fmt"
	"net/url"
	"strings"
)

// Object URLs are path-style: scheme://endpoint/bucket/key. Keeping the
// bucket in the path lets Delete recover bucket and key from a previously
// returned URL without a registry lookup.

// BuildObjectURL renders the canonical URL for an object.
func BuildObjectURL(endpoint string, secure bool, bucket, key string) string {
	scheme := "https"
	if !secure {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, bucket, strings.TrimPrefix(key, "/"))
}

// ParseObjectURL extracts bucket and key from a URL produced by
// BuildObjectURL. ok is false for bare paths, foreign hosts, or URLs without
// a bucket/key pair; callers fall back to defaults rather than failing.
func ParseObjectURL(endpoint, raw string) (bucket, key string, ok bool) {
	if !strings.Contains(raw, "://") {
		return "", "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Host != endpoint {
		return "", "", false
	}
	trimmed := strings.TrimPrefix(u.Path, "/")
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
