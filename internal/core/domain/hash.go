package domain

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"go.trai.ch/zerr"
)

// HashAlgorithmSHA256 is the only supported source hash algorithm.
const HashAlgorithmSHA256 = "sha256"

// SourceHash is a parsed content hash for a fetched source archive.
// The digest is stored as lowercase hex regardless of input notation.
type SourceHash struct {
	Algorithm string
	Digest    string
}

// ParseSourceHash parses a hash in SRI notation ("sha256-<base64>"),
// prefixed hex notation ("sha256:<hex>"), or as a bare 64-character
// hex digest.
func ParseSourceHash(s string) (SourceHash, error) {
	switch {
	case strings.HasPrefix(s, HashAlgorithmSHA256+"-"):
		raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(s, HashAlgorithmSHA256+"-"))
		if err != nil || len(raw) != sha256.Size {
			return SourceHash{}, zerr.With(ErrInvalidHash, "hash", s)
		}
		return SourceHash{Algorithm: HashAlgorithmSHA256, Digest: hex.EncodeToString(raw)}, nil

	case strings.HasPrefix(s, HashAlgorithmSHA256+":"):
		return parseHexDigest(strings.TrimPrefix(s, HashAlgorithmSHA256+":"))

	default:
		return parseHexDigest(s)
	}
}

func parseHexDigest(s string) (SourceHash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != sha256.Size {
		return SourceHash{}, zerr.With(ErrInvalidHash, "hash", s)
	}
	return SourceHash{Algorithm: HashAlgorithmSHA256, Digest: strings.ToLower(s)}, nil
}

// IsZero reports whether the hash is unset.
func (h SourceHash) IsZero() bool {
	return h.Digest == ""
}

// String returns the prefixed hex notation, e.g. "sha256:ab12...".
func (h SourceHash) String() string {
	if h.IsZero() {
		return ""
	}
	return h.Algorithm + ":" + h.Digest
}

// SRI returns the hash in subresource integrity notation,
// e.g. "sha256-<base64>".
func (h SourceHash) SRI() string {
	if h.IsZero() {
		return ""
	}
	raw, err := hex.DecodeString(h.Digest)
	if err != nil {
		return ""
	}
	return h.Algorithm + "-" + base64.StdEncoding.EncodeToString(raw)
}

// Matches reports whether data hashes to this digest.
func (h SourceHash) Matches(data []byte) bool {
	sum := sha256.Sum256(data)
	return h.Digest == hex.EncodeToString(sum[:])
}

// MarshalText implements encoding.TextMarshaler.
func (h SourceHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *SourceHash) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*h = SourceHash{}
		return nil
	}
	parsed, err := ParseSourceHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
