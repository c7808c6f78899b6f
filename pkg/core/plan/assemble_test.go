package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/aanbieding/folder/pkg/core/layout"
	"github.com/aanbieding/folder/pkg/folder"
)

func products(n int) []folder.Product {
	out := make([]folder.Product, n)
	for i := range out {
		p := float64(i) + 0.99
		out[i] = folder.Product{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Product %d", i), Price: &p, Quantity: 1 + i%3}
	}
	return out
}

func request(pages ...folder.Page) *folder.Request {
	r := &folder.Request{Pages: pages}
	r.SetDefaults()
	return r
}

func TestAssembleEmptyPage(t *testing.T) {
	p := Assemble(request(folder.Page{Products: []folder.Product{}}))
	if p.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", p.PageCount())
	}
	if len(p.Pages[0].Cards) != 0 {
		t.Errorf("cards = %d, want 0", len(p.Pages[0].Cards))
	}
	if p.Pages[0].Title != nil {
		t.Errorf("Title = %+v, want nil", p.Pages[0].Title)
	}
	if p.Pages[0].Footer.Content != "Page 1 of 1" {
		t.Errorf("footer = %q, want %q", p.Pages[0].Footer.Content, "Page 1 of 1")
	}
}

func TestAssembleNoPages(t *testing.T) {
	p := Assemble(request())
	if p.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1", p.PageCount())
	}
}

func TestAssembleMonotonic(t *testing.T) {
	modes := []folder.LayoutMode{folder.LayoutGrid, folder.LayoutList, folder.LayoutFeatured, "other"}
	for _, orientation := range []folder.Orientation{folder.Portrait, folder.Landscape} {
		for n := 0; n <= 30; n += 3 {
			var pages []folder.Page
			for i, m := range modes {
				pages = append(pages, folder.Page{Title: fmt.Sprintf("Page %d", i), Layout: m, Products: products(n)})
			}
			req := request(pages...)
			req.Orientation = orientation
			p := Assemble(req)
			if p.PageCount() < len(req.Pages) {
				t.Errorf("%s n=%d: PageCount() = %d < %d logical pages", orientation, n, p.PageCount(), len(req.Pages))
			}
			if p.CardCount() != req.ProductCount() {
				t.Errorf("%s n=%d: CardCount() = %d, want %d", orientation, n, p.CardCount(), req.ProductCount())
			}
			for _, pg := range p.Pages {
				for _, c := range pg.Cards {
					if c.Region.Bottom() > p.Bounds.Bottom() {
						t.Errorf("%s n=%d: card %s on page %d overflows", orientation, n, c.ProductID, pg.Number)
					}
				}
			}
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	build := func() []byte {
		req := request(
			folder.Page{Title: "Zuivel", Layout: folder.LayoutFeatured, BackgroundColor: "#fff8e1", Products: products(11)},
			folder.Page{Layout: folder.LayoutList, Products: products(9)},
		)
		data, err := json.Marshal(Assemble(req))
		if err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		return data
	}
	if a, b := build(), build(); !bytes.Equal(a, b) {
		t.Error("plans differ between runs")
	}
}

func TestAssembleConcurrent(t *testing.T) {
	req := request(
		folder.Page{Title: "Zuivel", Layout: folder.LayoutFeatured, Products: products(15)},
		folder.Page{Layout: folder.LayoutList, Products: products(12)},
	)
	want, err := json.Marshal(Assemble(req))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = json.Marshal(Assemble(req))
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if !bytes.Equal(got, want) {
			t.Errorf("run %d: plan differs from sequential run", i)
		}
	}
}

func TestAssembleContinuation(t *testing.T) {
	req := request(folder.Page{Title: "Aanbiedingen", BackgroundColor: "#ffeeee", Products: products(12)})
	p := Assemble(req)

	if p.PageCount() != 2 {
		t.Fatalf("PageCount() = %d, want 2", p.PageCount())
	}
	first, second := p.Pages[0], p.Pages[1]
	if first.Title == nil || first.Title.Content != "Aanbiedingen" {
		t.Errorf("first page title = %+v", first.Title)
	}
	if first.Fill == nil || first.Fill.Hex() != "#ffeeee" {
		t.Errorf("first page fill = %v, want #ffeeee", first.Fill)
	}
	if second.Title != nil || second.Fill != nil {
		t.Error("continuation page should not repeat title or fill")
	}
	if !second.Continuation || second.Source != 1 {
		t.Errorf("second page = continuation %v source %d, want true 1", second.Continuation, second.Source)
	}
	// A title pushes the grid down by 18mm, leaving room for three rows.
	if len(first.Cards) != 6 || len(second.Cards) != 6 {
		t.Errorf("cards per page = %d/%d, want 6/6", len(first.Cards), len(second.Cards))
	}
	if second.Cards[0].Region.Y != p.Bounds.Top() {
		t.Errorf("continuation starts at %v, want %v", second.Cards[0].Region.Y, p.Bounds.Top())
	}
	if second.Footer.Content != "Page 2 of 2" {
		t.Errorf("footer = %q, want %q", second.Footer.Content, "Page 2 of 2")
	}
}

func TestAssembleFeatured(t *testing.T) {
	req := request(folder.Page{Layout: folder.LayoutFeatured, Products: []folder.Product{
		{ID: "A", Name: "A"}, {ID: "B", Name: "B"}, {ID: "C", Name: "C"},
	}})
	p := Assemble(req)
	cards := p.Pages[0].Cards
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}
	if cards[0].Region.Width != p.Bounds.ContentWidth() {
		t.Errorf("hero width = %v, want %v", cards[0].Region.Width, p.Bounds.ContentWidth())
	}
	if cards[1].Region.X != p.Bounds.Left() || cards[2].Region.X <= cards[1].Region.X {
		t.Errorf("B at x=%v, C at x=%v; want B in column 0 and C in column 1", cards[1].Region.X, cards[2].Region.X)
	}
	if cards[1].Region.Y != cards[2].Region.Y || cards[1].Region.Y <= cards[0].Region.Bottom() {
		t.Errorf("B and C should share a row below the hero")
	}
}

func TestAssembleBackground(t *testing.T) {
	tests := []struct {
		name     string
		spec     string
		wantFill bool
		wantWarn bool
	}{
		{"default", "white", false, false},
		{"hex", "#336699", true, false},
		{"bare hex", "336699", true, false},
		{"named", "red", false, true},
		{"garbage", "not-a-color", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			a := NewAssembler(log.New(&buf))
			p := a.Assemble(request(folder.Page{BackgroundColor: tt.spec}))

			if got := p.Pages[0].Fill != nil; got != tt.wantFill {
				t.Errorf("fill = %v, want %v", got, tt.wantFill)
			}
			if got := strings.Contains(buf.String(), "skipping background fill"); got != tt.wantWarn {
				t.Errorf("warned = %v, want %v (log: %q)", got, tt.wantWarn, buf.String())
			}
		})
	}
}

func TestAssembleLandscapeBounds(t *testing.T) {
	req := request(folder.Page{})
	req.Orientation = folder.Landscape
	p := Assemble(req)
	if p.Bounds != layout.A4(true) {
		t.Errorf("Bounds = %+v, want landscape A4", p.Bounds)
	}
}
