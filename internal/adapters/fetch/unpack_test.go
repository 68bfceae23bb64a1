package fetch_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.kiln.sh/kiln/internal/adapters/fetch"
)

type tarEntry struct {
	name     string
	body     string
	mode     int64
	typeflag byte
	linkname string
}

// writeTarGz builds a gzip-compressed tarball fixture on disk, shaped
// like a forge archive with a single root directory.
func writeTarGz(t *testing.T, entries []tarEntry) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		hdr := &tar.Header{
			Name:     e.name,
			Mode:     e.mode,
			Typeflag: e.typeflag,
			Linkname: e.linkname,
			Size:     int64(len(e.body)),
		}
		if hdr.Typeflag == 0 {
			hdr.Typeflag = tar.TypeReg
		}
		if hdr.Mode == 0 {
			hdr.Mode = 0o644
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(e.body)); err != nil {
			t.Fatalf("failed to write tar body: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "fixture.tar.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestUnpack_StripsRootDirectory(t *testing.T) {
	archive := writeTarGz(t, []tarEntry{
		{name: "zlib-1.3.1/", typeflag: tar.TypeDir, mode: 0o755},
		{name: "zlib-1.3.1/README", body: "zlib readme"},
		{name: "zlib-1.3.1/src/inflate.c", body: "int inflate;"},
		{name: "zlib-1.3.1/configure", body: "#!/bin/sh\n", mode: 0o755},
	})

	dest := filepath.Join(t.TempDir(), "src")
	f := fetch.NewFetcher(t.TempDir())
	if err := f.Unpack(archive, dest); err != nil {
		t.Fatalf("unpack failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "README"))
	if err != nil {
		t.Fatalf("README not extracted at stripped path: %v", err)
	}
	if string(data) != "zlib readme" {
		t.Errorf("unexpected README content: %q", data)
	}

	if _, err := os.Stat(filepath.Join(dest, "src", "inflate.c")); err != nil {
		t.Errorf("nested file not extracted: %v", err)
	}

	info, err := os.Stat(filepath.Join(dest, "configure"))
	if err != nil {
		t.Fatalf("configure not extracted: %v", err)
	}
	if info.Mode()&0o100 == 0 {
		t.Error("executable bit not preserved on configure")
	}
}

func TestUnpack_Symlink(t *testing.T) {
	archive := writeTarGz(t, []tarEntry{
		{name: "pkg-1.0/lib/libz.so.1", body: "elf"},
		{name: "pkg-1.0/lib/libz.so", typeflag: tar.TypeSymlink, linkname: "libz.so.1"},
	})

	dest := t.TempDir()
	f := fetch.NewFetcher(t.TempDir())
	if err := f.Unpack(archive, dest); err != nil {
		t.Fatalf("unpack failed: %v", err)
	}

	target, err := os.Readlink(filepath.Join(dest, "lib", "libz.so"))
	if err != nil {
		t.Fatalf("symlink not extracted: %v", err)
	}
	if target != "libz.so.1" {
		t.Errorf("symlink target = %q, want libz.so.1", target)
	}
}

func TestUnpack_RejectsEscapingEntry(t *testing.T) {
	archive := writeTarGz(t, []tarEntry{
		{name: "pkg-1.0/../../evil", body: "escape"},
	})

	dest := t.TempDir()
	f := fetch.NewFetcher(t.TempDir())
	if err := f.Unpack(archive, dest); err == nil {
		t.Fatal("expected error for path traversal entry, got nil")
	}
}

func TestUnpack_RejectsEscapingSymlink(t *testing.T) {
	tests := []struct {
		name     string
		linkname string
	}{
		{name: "relative traversal", linkname: "../../../etc/passwd"},
		{name: "absolute target", linkname: "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := writeTarGz(t, []tarEntry{
				{name: "pkg-1.0/lib/evil", typeflag: tar.TypeSymlink, linkname: tt.linkname},
			})

			dest := t.TempDir()
			f := fetch.NewFetcher(t.TempDir())
			if err := f.Unpack(archive, dest); err == nil {
				t.Fatal("expected error for escaping symlink target, got nil")
			}
			if _, err := os.Lstat(filepath.Join(dest, "lib", "evil")); !os.IsNotExist(err) {
				t.Errorf("escaping symlink was created: %v", err)
			}
		})
	}
}

func TestUnpack_RejectsOversizedEntry(t *testing.T) {
	// A bare header declaring more than the extraction cap; the body is
	// never written because the entry must be rejected before any read.
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdr := &tar.Header{Name: "pkg-1.0/huge.bin", Mode: 0o644, Size: 4<<30 + 1}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "fixture.tar")
	if err := os.WriteFile(archive, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	dest := t.TempDir()
	f := fetch.NewFetcher(t.TempDir())
	err := f.Unpack(archive, dest)
	if err == nil {
		t.Fatal("expected error for oversized entry, got nil")
	}
	if !strings.Contains(err.Error(), "size limit") {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "huge.bin")); !os.IsNotExist(err) {
		t.Errorf("oversized entry was created: %v", err)
	}
}

func TestUnpack_PlainTar(t *testing.T) {
	// Same fixture without compression: the sniffer must pass it through.
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	hdr := &tar.Header{Name: "pkg-1.0/file.txt", Mode: 0o644, Size: 4}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	if _, err := tw.Write([]byte("data")); err != nil {
		t.Fatalf("failed to write body: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	archive := filepath.Join(t.TempDir(), "fixture.tar")
	if err := os.WriteFile(archive, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	dest := t.TempDir()
	f := fetch.NewFetcher(t.TempDir())
	if err := f.Unpack(archive, dest); err != nil {
		t.Fatalf("unpack failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "file.txt")); err != nil {
		t.Errorf("file not extracted: %v", err)
	}
}
