package ports

import "go.kiln.sh/kiln/internal/core/domain"

// EnvironmentFactory composes the environment for build phases from the
// store paths of a recipe's built inputs.
//
// Native build inputs contribute their bin/ directories to PATH; library
// inputs contribute include/, lib/, and lib/pkgconfig/ to CFLAGS,
// LDFLAGS, and PKG_CONFIG_PATH.
//
//go:generate go run go.uber.org/mock/mockgen -source=environment.go -destination=mocks/mock_environment.go -package=mocks
type EnvironmentFactory interface {
	// Compose returns environment variables as "KEY=VALUE" strings.
	Compose(native, libraries []domain.BuildResult) []string
}
