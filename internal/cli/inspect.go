package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanbieding/folder/pkg/artifacts"
	"github.com/aanbieding/folder/pkg/pipeline"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		showText bool
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file.pdf>",
		Short: "Read back a generated PDF and report its pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := artifacts.Inspect(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(c.out)
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}

			p := printer{c.out}
			p.keyValue("File", sum.Path)
			p.keyValue("Size", fmt.Sprintf("%.2f KB", pipeline.SizeKB(sum.Size)))
			p.keyValue("Pages", fmt.Sprint(sum.Pages))
			if len(sum.Footers) > 0 {
				p.keyValue("Footers", strings.Join(sum.Footers, ", "))
			}
			if len(sum.Footers) > 0 && len(sum.Footers) != sum.Pages {
				p.warning("found %d page footers for %d pages", len(sum.Footers), sum.Pages)
			}
			if sum.Warnings > 0 {
				p.warning("%d extraction warnings", sum.Warnings)
			}
			if showText {
				fmt.Fprintln(c.out)
				fmt.Fprintln(c.out, sum.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "print the extracted text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
