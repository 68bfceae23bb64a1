package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.kiln.sh/kiln/internal/adapters/cas"       //nolint:depguard // wired in engine wiring
	"go.kiln.sh/kiln/internal/adapters/env"       //nolint:depguard // wired in engine wiring
	"go.kiln.sh/kiln/internal/adapters/fetch"     //nolint:depguard // wired in engine wiring
	"go.kiln.sh/kiln/internal/adapters/fs"        //nolint:depguard // wired in engine wiring
	"go.kiln.sh/kiln/internal/adapters/logger"    //nolint:depguard // wired in engine wiring
	"go.kiln.sh/kiln/internal/adapters/shell"     //nolint:depguard // wired in engine wiring
	"go.kiln.sh/kiln/internal/adapters/telemetry" //nolint:depguard // wired in engine wiring
	"go.kiln.sh/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fetch.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			env.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			fetcher, err := graft.Dep[ports.SourceFetcher](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ResultStore](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			envFactory, err := graft.Dep[ports.EnvironmentFactory](ctx)
			if err != nil {
				return nil, err
			}

			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(executor, fetcher, store, hasher, envFactory, tel, log), nil
		},
	})
}
