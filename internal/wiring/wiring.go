// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.kiln.sh/kiln/internal/adapters/cas"
	_ "go.kiln.sh/kiln/internal/adapters/config"
	_ "go.kiln.sh/kiln/internal/adapters/env"
	_ "go.kiln.sh/kiln/internal/adapters/fetch"
	_ "go.kiln.sh/kiln/internal/adapters/fs"
	_ "go.kiln.sh/kiln/internal/adapters/logger"
	_ "go.kiln.sh/kiln/internal/adapters/shell"
	_ "go.kiln.sh/kiln/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.kiln.sh/kiln/internal/app"
	_ "go.kiln.sh/kiln/internal/engine/scheduler"
)
