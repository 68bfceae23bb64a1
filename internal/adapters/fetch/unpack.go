package fetch

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"go.trai.ch/zerr"
)

// maxFileSize caps a single extracted file to guard against
// decompression bombs in a fetched archive.
const maxFileSize = 4 << 30

// Unpack extracts a fetched archive into dest. Forge tarballs wrap the
// tree in a single "<repo>-<rev>/" directory; that component is
// stripped so dest is the source root.
func (f *Fetcher) Unpack(archive, dest string) error {
	file, err := os.Open(archive) //nolint:gosec // archive is inside our cache dir
	if err != nil {
		return zerr.Wrap(err, "failed to open archive")
	}
	defer func() { _ = file.Close() }()

	reader, err := decompress(file)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dest, dirPerm); err != nil {
		return zerr.Wrap(err, "failed to create unpack destination")
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read archive entry")
		}
		if err := extractEntry(tr, hdr, dest); err != nil {
			return err
		}
	}
}

// decompress sniffs the stream's magic bytes and wraps it in the
// matching decompressor. Plain tar passes through.
func decompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(6)
	if err != nil && len(magic) < 2 {
		return nil, zerr.Wrap(err, "failed to read archive header")
	}

	switch {
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open gzip stream")
		}
		return gz, nil
	case len(magic) >= 6 && string(magic) == "\xfd7zXZ\x00":
		xzr, err := xz.NewReader(br)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open xz stream")
		}
		return xzr, nil
	default:
		return br, nil
	}
}

func extractEntry(tr *tar.Reader, hdr *tar.Header, dest string) error {
	name := stripRoot(hdr.Name)
	if name == "" {
		return nil
	}
	if !filepath.IsLocal(name) {
		return zerr.With(zerr.New("archive entry escapes destination"), "entry", hdr.Name)
	}
	target := filepath.Join(dest, name)

	switch hdr.Typeflag {
	case tar.TypeDir:
		return os.MkdirAll(target, dirPerm)
	case tar.TypeSymlink:
		// The link target must stay inside dest once resolved relative
		// to the entry's own directory.
		if filepath.IsAbs(hdr.Linkname) || !filepath.IsLocal(filepath.Join(filepath.Dir(name), hdr.Linkname)) {
			return zerr.With(zerr.With(zerr.New("archive symlink escapes destination"),
				"entry", hdr.Name), "link", hdr.Linkname)
		}
		if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
			return zerr.Wrap(err, "failed to create parent directory")
		}
		return os.Symlink(hdr.Linkname, target)
	case tar.TypeReg:
		return extractFile(tr, hdr, target)
	default:
		// Hard links, devices, and the like do not occur in source
		// tarballs; skip them.
		return nil
	}
}

func extractFile(tr *tar.Reader, hdr *tar.Header, target string) error {
	if hdr.Size > maxFileSize {
		return zerr.With(zerr.With(zerr.New("archive entry exceeds size limit"),
			"entry", hdr.Name), "size", hdr.Size)
	}
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return zerr.Wrap(err, "failed to create parent directory")
	}

	mode := os.FileMode(filePerm)
	if hdr.FileInfo().Mode()&0o111 != 0 {
		mode |= 0o100
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode) //nolint:gosec // target is sanitized above
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}
	defer func() { _ = out.Close() }()

	// The header size is checked above, but a lying stream must still
	// not write past the cap.
	n, err := io.Copy(out, io.LimitReader(tr, maxFileSize+1))
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to extract file"), "entry", hdr.Name)
	}
	if n > maxFileSize {
		return zerr.With(zerr.New("archive entry exceeds size limit"), "entry", hdr.Name)
	}
	return out.Close()
}

// stripRoot drops the single leading path component.
func stripRoot(name string) string {
	name = strings.TrimPrefix(name, "./")
	_, rest, ok := strings.Cut(name, "/")
	if !ok {
		return ""
	}
	return rest
}
