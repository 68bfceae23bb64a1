package domain_test

import (
	"encoding/json"
	"testing"

	"go.kiln.sh/kiln/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	a := domain.NewInternedString("zlib")
	b := domain.NewInternedString("zlib")

	if a != b {
		t.Error("interned strings with equal content should compare equal")
	}
	if a.String() != "zlib" {
		t.Errorf("String() = %q", a.String())
	}

	var zero domain.InternedString
	if zero.String() != "" {
		t.Errorf("zero value String() = %q, want empty", zero.String())
	}
}

func TestInternedString_JSON(t *testing.T) {
	a := domain.NewInternedString("openssl")

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"openssl"` {
		t.Errorf("marshal = %s", data)
	}

	var back domain.InternedString
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if back != a {
		t.Error("roundtrip lost identity")
	}
}
