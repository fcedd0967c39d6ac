package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand() *cobra.Command {
	var (
		repoFlag   string
		configPath string
	)

	cmd := &cobra.Command{
		Use:           "status",
		Short:         "Show repository working tree status",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := openSession(repoFlag, configPath)
			if err != nil {
				return err
			}

			status, err := sess.Status()
			if err != nil {
				return err
			}

			if !status.IsInitialized {
				color.New(color.FgYellow).Fprintln(os.Stdout, "Not a git repository")

				return nil
			}

			branch := status.CurrentBranch
			if status.HeadDetached {
				branch = "HEAD (detached)"
			}

			fmt.Fprintf(os.Stdout, "On branch %s\n", branch)

			if !status.HasChanges {
				color.New(color.FgGreen).Fprintln(os.Stdout, "Working tree clean")

				return nil
			}

			printFileSection("Staged:", color.FgGreen, status.StagedFiles)
			printFileSection("Modified:", color.FgYellow, status.ModifiedFiles)
			printFileSection("Untracked:", color.FgRed, status.UntrackedFiles)

			return nil
		},
	}

	cmd.Flags().StringVar(&repoFlag, "repo", "", "Repository path (default: config, then CWD)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	return cmd
}

func printFileSection(title string, attr color.Attribute, files []string) {
	if len(files) == 0 {
		return
	}

	fmt.Fprintln(os.Stdout, title)

	for _, f := range files {
		color.New(attr).Fprintf(os.Stdout, "  %s\n", f)
	}
}
