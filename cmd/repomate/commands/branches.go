package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewBranchesCommand creates the branches command.
func NewBranchesCommand() *cobra.Command {
	var (
		repoFlag   string
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "branches",
		Short:         "List local branches",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := openSession(repoFlag, configPath)
			if err != nil {
				return err
			}

			branches, err := sess.ListBranches()
			if err != nil {
				return err
			}

			for _, b := range branches {
				if b.IsCurrent {
					color.New(color.FgGreen).Fprintf(os.Stdout, "* %s (%s): %s\n", b.Name, b.LastCommitSHA, b.LastCommitMessage)

					continue
				}

				fmt.Fprintf(os.Stdout, "  %s (%s): %s\n", b.Name, b.LastCommitSHA, b.LastCommitMessage)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&repoFlag, "repo", "", "Repository path (default: config, then CWD)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	return cmd
}
