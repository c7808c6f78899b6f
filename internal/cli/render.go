package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanbieding/folder/pkg/folder"
	"github.com/aanbieding/folder/pkg/pipeline"
	"github.com/aanbieding/folder/pkg/writer"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // output file path; derived from the input when empty
	backend     string // writer backend; the configured one when empty
	colorMode   string // overrides the request's color_mode
	orientation string // overrides the request's orientation
	dpi         int    // overrides the request's dpi
	noCache     bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <request.{json,yaml}>",
		Short: "Lay out a folder request and write the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with the backend's extension)")
	cmd.Flags().StringVarP(&opts.backend, "backend", "b", "", "writer backend: "+strings.Join(writer.Formats(), ", "))
	cmd.Flags().StringVar(&opts.colorMode, "color-mode", "", "override color mode: RGB, CMYK")
	cmd.Flags().StringVar(&opts.orientation, "orientation", "", "override orientation: portrait, landscape")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "override dpi (72-600)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the plan and artifact cache")

	_ = cmd.RegisterFlagCompletionFunc("backend", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return writer.Formats(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// loadRequest reads a request file and applies command-line overrides.
func loadRequest(path, colorMode, orientation string, dpi int) (*folder.Request, error) {
	req, err := folder.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	if colorMode != "" {
		req.ColorMode = folder.ColorMode(strings.ToUpper(colorMode))
	}
	if orientation != "" {
		req.Orientation = folder.Orientation(strings.ToLower(orientation))
	}
	if dpi != 0 {
		req.DPI = dpi
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// outputPath derives the destination from the input file when output is empty.
func outputPath(output, input string, format writer.Format) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + writer.Extension(format)
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	p := printer{c.out}

	req, err := loadRequest(input, opts.colorMode, opts.orientation, opts.dpi)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %s: %d pages, %d products", input, len(req.Pages), req.ProductCount())

	runner, err := c.newRunner(ctx, opts.backend, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	dst := outputPath(opts.output, input, runner.Writer.Format())

	prog := newProgress(logger)
	spin := newSpinner(ctx, c.errOut(), fmt.Sprintf("Rendering %s...", filepath.Base(input)))
	spin.Start()
	res, err := runner.Generate(ctx, req, dst)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %s", dst))

	printResult(p, res)
	return nil
}

func printResult(p printer, res *pipeline.Result) {
	p.success("Generated %s (%.2f KB)", strings.ToUpper(string(res.Format)), res.SizeKB())
	p.stats(res.Stats.PhysicalPages, res.Stats.Cards, res.CacheInfo.PlanHit)
	p.file(res.Path)
	if res.Format == writer.FormatPDF {
		p.nextStep("Check it", "folder inspect "+res.Path)
	}
}
