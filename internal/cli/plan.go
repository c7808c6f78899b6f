package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/aanbieding/folder/pkg/core/plan"
)

func (c *CLI) planCommand() *cobra.Command {
	var (
		asJSON      bool
		orientation string
		noCache     bool
	)

	cmd := &cobra.Command{
		Use:   "plan <request.{json,yaml}>",
		Short: "Print the render plan of a folder request",
		Long: `Plan lays out a request without writing a document and prints one row
per physical page. With --json the complete render plan is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, cached, err := c.loadPlan(cmd.Context(), args[0], orientation, noCache)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			fmt.Fprintln(c.out, planTable(p))
			printer{c.out}.stats(p.PageCount(), p.CardCount(), cached)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full plan as JSON")
	cmd.Flags().StringVar(&orientation, "orientation", "", "override orientation: portrait, landscape")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the plan cache")
	return cmd
}

// loadPlan decodes a request file and returns its plan.
func (c *CLI) loadPlan(ctx context.Context, path, orientation string, noCache bool) (*plan.Plan, bool, error) {
	req, err := loadRequest(path, "", orientation, 0)
	if err != nil {
		return nil, false, err
	}
	runner, err := c.newRunner(ctx, "", noCache)
	if err != nil {
		return nil, false, err
	}
	defer runner.Close()
	return runner.Plan(ctx, req)
}

// planTable renders one row per physical page.
func planTable(p *plan.Plan) string {
	rows := make([][]string, 0, len(p.Pages))
	for _, pg := range p.Pages {
		title := ""
		if pg.Title != nil {
			title = pg.Title.Content
		}
		fill := ""
		if pg.Fill != nil {
			fill = pg.Fill.Hex()
		}
		cont := ""
		if pg.Continuation {
			cont = "↳"
		}
		rows = append(rows, []string{
			strconv.Itoa(pg.Number),
			strconv.Itoa(pg.Source) + cont,
			title,
			strconv.Itoa(len(pg.Cards)),
			fill,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Page", "Source", "Title", "Cards", "Fill").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}
