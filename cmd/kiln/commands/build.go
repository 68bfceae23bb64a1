package commands

import (
	"github.com/spf13/cobra"
	"go.kiln.sh/kiln/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [packages...]",
		Short: "Build packages and everything they depend on",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}

			jobs, _ := cmd.Flags().GetInt("jobs")
			force, _ := cmd.Flags().GetBool("force")

			return c.app.Build(cmd.Context(), args, app.BuildOptions{
				RecipeDir: recipeDir(cmd),
				Jobs:      jobs,
				Force:     force,
			})
		},
	}

	cmd.Flags().IntP("jobs", "j", 0, "Number of packages built in parallel (0 = number of CPUs)")
	cmd.Flags().BoolP("force", "f", false, "Force rebuild, bypassing the store cache")

	return cmd
}
