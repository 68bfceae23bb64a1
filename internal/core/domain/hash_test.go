package domain_test

import (
	"testing"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	helloHex = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	helloSRI = "sha256-uU0nuZNNPgilLlLX2n2r+sSE7+N6U4DukIj3rOLvzek="
)

func TestParseSourceHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "sri", input: helloSRI, want: helloHex},
		{name: "prefixed hex", input: "sha256:" + helloHex, want: helloHex},
		{name: "bare hex", input: helloHex, want: helloHex},
		{name: "empty", input: "", wantErr: true},
		{name: "truncated hex", input: helloHex[:40], wantErr: true},
		{name: "not hex", input: "zzzz27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", wantErr: true},
		{name: "bad base64", input: "sha256-!!!!", wantErr: true},
		{name: "sri wrong length", input: "sha256-aGVsbG8=", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseSourceHash(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if err.Error() != domain.ErrInvalidHash.Error() {
					t.Fatalf("expected ErrInvalidHash, got %v", err)
				}
				zErr, ok := err.(*zerr.Error)
				if !ok {
					t.Fatalf("expected *zerr.Error, got %T", err)
				}
				if hash, ok := zErr.Metadata()["hash"].(string); !ok || hash != tt.input {
					t.Errorf("expected metadata hash=%q, got %v", tt.input, zErr.Metadata()["hash"])
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Algorithm != domain.HashAlgorithmSHA256 {
				t.Errorf("expected algorithm sha256, got %q", got.Algorithm)
			}
			if got.Digest != tt.want {
				t.Errorf("expected digest %s, got %s", tt.want, got.Digest)
			}
		})
	}
}

func TestSourceHash_Roundtrip(t *testing.T) {
	h, err := domain.ParseSourceHash(helloSRI)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := h.String(); got != "sha256:"+helloHex {
		t.Errorf("String() = %q", got)
	}
	if got := h.SRI(); got != helloSRI {
		t.Errorf("SRI() = %q, want %q", got, helloSRI)
	}
}

func TestSourceHash_Matches(t *testing.T) {
	h, err := domain.ParseSourceHash(helloHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !h.Matches([]byte("hello world")) {
		t.Error("expected hash to match its own content")
	}
	if h.Matches([]byte("hello worlD")) {
		t.Error("expected hash not to match different content")
	}
}

func TestSourceHash_TextMarshaling(t *testing.T) {
	h, err := domain.ParseSourceHash(helloHex)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := h.MarshalText()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var back domain.SourceHash
	if err := back.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != h {
		t.Errorf("roundtrip mismatch: %v != %v", back, h)
	}

	var zero domain.SourceHash
	if err := zero.UnmarshalText(nil); err != nil {
		t.Fatalf("unmarshal of empty text failed: %v", err)
	}
	if !zero.IsZero() {
		t.Error("expected zero hash after empty unmarshal")
	}
}
