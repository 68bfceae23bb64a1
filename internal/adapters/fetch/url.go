package fetch

import (
	"fmt"
	"net/url"

	"go.kiln.sh/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Forge hostnames with known archive URL schemes.
const (
	HostGitHub    = "github.com"
	HostGitLab    = "gitlab.com"
	HostBitbucket = "bitbucket.org"
	HostSourcehut = "git.sr.ht"

	defaultHost = HostGitHub
)

// ErrUnknownHost is returned for hosts without a known archive URL scheme.
var ErrUnknownHost = zerr.New("unknown source host")

// ArchiveURL returns the tarball URL for a pinned source revision.
func ArchiveURL(src domain.Source) (string, error) {
	host := src.Host
	if host == "" {
		host = defaultHost
	}

	owner := url.PathEscape(src.Owner)
	repo := url.PathEscape(src.Repo)
	rev := url.PathEscape(src.Rev)

	switch host {
	case HostGitHub:
		return fmt.Sprintf("https://codeload.github.com/%s/%s/tar.gz/%s", owner, repo, rev), nil
	case HostGitLab:
		return fmt.Sprintf("https://gitlab.com/%s/%s/repository/archive.tar.gz?ref=%s", owner, repo, rev), nil
	case HostBitbucket:
		return fmt.Sprintf("https://bitbucket.org/%s/%s/get/%s.tar.gz", owner, repo, rev), nil
	case HostSourcehut:
		return fmt.Sprintf("https://git.sr.ht/%s/%s/archive/%s.tar.gz", owner, repo, rev), nil
	default:
		return "", zerr.With(ErrUnknownHost, "host", host)
	}
}
