package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aanbieding/folder/pkg/artifacts"
	"github.com/aanbieding/folder/pkg/jobs"
	"github.com/aanbieding/folder/pkg/pipeline"
)

// jobsCommand manages the job registry. It is mostly useful with the mongo
// backend, where jobs outlive the server process.
func (c *CLI) jobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List and prune generation jobs",
	}
	cmd.AddCommand(c.jobsListCommand())
	cmd.AddCommand(c.jobsCleanupCommand())
	return cmd
}

func (c *CLI) jobsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs in submission order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := c.openJobs(ctx)
			if err != nil {
				return err
			}
			defer reg.Close(ctx)

			all, err := reg.List(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				printer{c.out}.info("No jobs")
				return nil
			}
			fmt.Fprintln(c.out, jobsTable(all))
			return nil
		},
	}
}

func (c *CLI) jobsCleanupCommand() *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove finished jobs beyond the newest --keep and their files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep") {
				keep = cfg.Jobs.Keep
			}
			reg, err := c.openJobs(ctx)
			if err != nil {
				return err
			}
			defer reg.Close(ctx)

			before, err := reg.List(ctx)
			if err != nil {
				return err
			}
			removed, err := reg.Prune(ctx, keep)
			if err != nil {
				return err
			}
			store, err := artifacts.NewStore(cfg.Artifacts.Dir, c.Logger)
			if err != nil {
				return err
			}
			for _, j := range removed {
				if err := store.Remove(j.Path); err != nil {
					c.Logger.Warn("remove artifact", "job", j.ID, "err", err)
				}
			}

			p := printer{c.out}
			p.success("Removed %d jobs", len(removed))
			p.detail("%d → %d jobs", len(before), len(before)-len(removed))
			return nil
		},
	}

	cmd.Flags().IntVar(&keep, "keep", jobs.DefaultKeep, "number of newest jobs to keep")
	return cmd
}

func jobsTable(all []jobs.Job) string {
	rows := make([][]string, 0, len(all))
	for _, j := range all {
		rows = append(rows, []string{
			j.ID,
			string(j.Status),
			j.Filename,
			strconv.FormatFloat(pipeline.SizeKB(j.Size), 'f', 2, 64),
			strconv.Itoa(j.Pages),
			j.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Job", "Status", "File", "KB", "Pages", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			s := lipgloss.NewStyle().Padding(0, 1)
			if col == 1 {
				switch all[row].Status {
				case jobs.StatusCompleted:
					s = s.Foreground(colorGreen)
				case jobs.StatusFailed:
					s = s.Foreground(colorRed)
				}
			}
			return s
		}).
		String()
}
