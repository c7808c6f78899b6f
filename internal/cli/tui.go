package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aanbieding/folder/pkg/core/card"
	"github.com/aanbieding/folder/pkg/core/plan"
)

var (
	previewPageStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	previewCardStyle = lipgloss.NewStyle().Foreground(colorCyan)
	previewDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	previewSelStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// previewScale is millimetres per terminal cell, horizontally and vertically.
const (
	previewScaleX = 3.0
	previewScaleY = 6.0
)

func (c *CLI) previewCommand() *cobra.Command {
	var orientation string

	cmd := &cobra.Command{
		Use:   "preview <request.{json,yaml}>",
		Short: "Browse the laid-out pages of a request in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, _, err := c.loadPlan(cmd.Context(), args[0], orientation, false)
			if err != nil {
				return err
			}
			prog := tea.NewProgram(NewPreviewModel(p), tea.WithContext(cmd.Context()), tea.WithOutput(c.out))
			_, err = prog.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&orientation, "orientation", "", "override orientation: portrait, landscape")
	return cmd
}

// =============================================================================
// PreviewModel - page-by-page plan browser
// =============================================================================

// PreviewModel is the bubbletea model for browsing a render plan.
type PreviewModel struct {
	Plan *plan.Plan
	Page int // 0-based physical page index
	Card int // selected card on the page, -1 for none
}

// NewPreviewModel creates a preview positioned on the first page.
func NewPreviewModel(p *plan.Plan) PreviewModel {
	return PreviewModel{Plan: p, Card: -1}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "right", "l", "n", "pgdown":
		if m.Page < len(m.Plan.Pages)-1 {
			m.Page++
			m.Card = -1
		}
	case "left", "h", "p", "pgup":
		if m.Page > 0 {
			m.Page--
			m.Card = -1
		}
	case "home", "g":
		m.Page, m.Card = 0, -1
	case "end", "G":
		m.Page, m.Card = len(m.Plan.Pages)-1, -1
	case "down", "j", "tab":
		if n := len(m.Plan.Pages[m.Page].Cards); n > 0 {
			m.Card = (m.Card + 1) % n
		}
	case "up", "k", "shift+tab":
		if n := len(m.Plan.Pages[m.Page].Cards); n > 0 {
			m.Card = (m.Card - 1 + n) % n
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder
	pg := m.Plan.Pages[m.Page]

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Page %d of %d", pg.Number, len(m.Plan.Pages))))
	if pg.Continuation {
		b.WriteString(previewDimStyle.Render(fmt.Sprintf("  (continues page %d)", pg.Source)))
	}
	b.WriteString("\n")
	b.WriteString(previewDimStyle.Render("←/→ page  ↑/↓ card  q quit"))
	b.WriteString("\n\n")
	b.WriteString(previewPageStyle.Render(m.sketch(pg)))
	b.WriteString("\n")

	if m.Card >= 0 && m.Card < len(pg.Cards) {
		b.WriteString(cardDetail(pg.Cards[m.Card]))
	} else {
		b.WriteString(previewDimStyle.Render(fmt.Sprintf("%d cards", len(pg.Cards))))
	}
	b.WriteString("\n")
	return b.String()
}

// sketch draws card outlines on a character grid scaled down from the page.
func (m PreviewModel) sketch(pg plan.Page) string {
	bounds := m.Plan.Bounds
	w := int(math.Ceil(bounds.Width / previewScaleX))
	h := int(math.Ceil(bounds.Height / previewScaleY))
	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", w))
	}

	for i, blk := range pg.Cards {
		x0 := int(blk.Region.X / previewScaleX)
		y0 := int(blk.Region.Y / previewScaleY)
		x1 := min(int(blk.Region.Right()/previewScaleX), w-1)
		y1 := min(int(blk.Region.Bottom()/previewScaleY), h-1)
		for x := x0; x <= x1; x++ {
			grid[y0][x], grid[y1][x] = '─', '─'
		}
		for y := y0; y <= y1; y++ {
			grid[y][x0], grid[y][x1] = '│', '│'
		}
		grid[y0][x0], grid[y0][x1], grid[y1][x0], grid[y1][x1] = '┌', '┐', '└', '┘'
		label := []rune(fmt.Sprintf("%d", i+1))
		for j, r := range label {
			if x0+1+j < x1 && y0+1 < y1 {
				grid[y0+1][x0+1+j] = r
			}
		}
	}

	lines := make([]string, h)
	for i, row := range grid {
		lines[i] = string(row)
	}
	sel := ""
	if m.Card >= 0 {
		sel = fmt.Sprintf("%d", m.Card+1)
	}
	out := previewCardStyle.Render(strings.Join(lines, "\n"))
	if sel != "" {
		out += "\n" + previewSelStyle.Render("selected #"+sel)
	}
	return out
}

func cardDetail(blk card.Block) string {
	var parts []string
	for _, t := range blk.Texts {
		parts = append(parts, t.Content)
	}
	return previewSelStyle.Render(blk.ProductID) + "  " + StyleValue.Render(strings.Join(parts, " · "))
}
