package commands

import (
	"github.com/spf13/cobra"
	"go.kiln.sh/kiln/internal/app"
)

func (c *CLI) newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch [packages...]",
		Short: "Download and verify sources without building",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}

			writeLock, _ := cmd.Flags().GetBool("lock")
			lockPath, _ := cmd.Flags().GetString("lockfile")

			return c.app.Fetch(cmd.Context(), args, app.FetchOptions{
				RecipeDir: recipeDir(cmd),
				WriteLock: writeLock,
				LockPath:  lockPath,
			})
		},
	}

	cmd.Flags().Bool("lock", false, "Write the resolved sources to a lockfile")
	cmd.Flags().String("lockfile", "", "Lockfile path (default <recipes>/kiln.lock.json)")

	return cmd
}
