package commands

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewLogCommand creates the log command.
func NewLogCommand() *cobra.Command {
	var (
		repoFlag   string
		configPath string
		ref        string
		limit      int
	)

	cmd := &cobra.Command{
		Use:           "log",
		Short:         "Show commit history",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := openSession(repoFlag, configPath)
			if err != nil {
				return err
			}

			commits, err := sess.ListCommits(ref, limit)
			if err != nil {
				return err
			}

			tbl := table.NewWriter()
			tbl.SetStyle(table.StyleLight)
			tbl.Style().Options.SeparateRows = false
			tbl.Style().Options.DrawBorder = false

			tbl.AppendHeader(table.Row{"SHA", "Date", "Author", "Message"})

			for _, c := range commits.Commits {
				tbl.AppendRow(table.Row{
					c.ShortSHA,
					c.Timestamp.Format("2006-01-02 15:04"),
					c.Author,
					firstLine(c.Message),
				})
			}

			tbl.AppendFooter(table.Row{fmt.Sprintf("%s: %d commits", commits.Branch, commits.TotalCount)})

			fmt.Fprintln(os.Stdout, tbl.Render())

			return nil
		},
	}

	cmd.Flags().StringVar(&repoFlag, "repo", "", "Repository path (default: config, then CWD)")
	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&ref, "ref", "HEAD", "Branch, tag, or commit to start from")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of commits")

	return cmd
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}

	return s
}
