package domain

// LockfileVersion is the current lockfile format version.
const LockfileVersion = 1

// Lockfile is a reproducible snapshot of every resolved source: for each
// package the exact forge coordinates, revision, content hash, and the
// archive URL they resolve to.
type Lockfile struct {
	Version  int                     `json:"version"`
	Packages map[string]LockedSource `json:"packages"`
}

// LockedSource pins one package's source.
type LockedSource struct {
	Host  string `json:"host"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Rev   string `json:"rev"`
	Hash  string `json:"hash"`
	URL   string `json:"url"`
}

// NewLockfile creates an empty lockfile at the current format version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version:  LockfileVersion,
		Packages: make(map[string]LockedSource),
	}
}
