package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// storeDigestLen is the number of hex characters of the input digest
// kept in a store path component.
const storeDigestLen = 12

// StoreDigest derives the deterministic digest that keys a recipe's
// output in the store. It covers everything that can change the build
// result: the recipe definition, the pinned source, and the store
// digests of all inputs.
func StoreDigest(r *Recipe, inputDigests map[string]string) string {
	h := sha256.New()

	write := func(parts ...string) {
		for _, p := range parts {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}

	write("kiln-store-v1")
	write(r.Name.String(), r.Version.String())
	write(r.Source.Host, r.Source.Owner, r.Source.Repo, r.Source.Rev, r.Source.Hash.String())
	write(r.ConfigureScript)
	write(r.ConfigureFlags...)
	write(r.BuildCommand...)
	write(r.InstallCommand...)
	if r.Check.Enable {
		write("check")
		write(r.Check.Target...)
		write(r.Check.PreCheck...)
		write(r.Check.PostCheck...)
	}

	// Sort input names so the digest is independent of map order.
	names := make([]string, 0, len(inputDigests))
	for name := range inputDigests {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		write(name, inputDigests[name])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// StorePathComponent returns the directory name a built recipe installs
// into: "<digest12>-<name>-<version>".
func StorePathComponent(digest string, r *Recipe) string {
	short := digest
	if len(short) > storeDigestLen {
		short = short[:storeDigestLen]
	}
	var b strings.Builder
	b.WriteString(short)
	b.WriteString("-")
	b.WriteString(r.Name.String())
	b.WriteString("-")
	b.WriteString(r.Version.String())
	return b.String()
}
