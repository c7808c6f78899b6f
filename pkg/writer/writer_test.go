package writer

import (
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aanbieding/folder/pkg/core/layout"
	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/folder"
)

func samplePlan(t *testing.T, orientation folder.Orientation) *plan.Plan {
	t.Helper()
	price := 19.995
	req := &folder.Request{
		Orientation: orientation,
		Pages: []folder.Page{{
			Title:           "Weekaanbiedingen <vers>",
			Layout:          folder.LayoutFeatured,
			BackgroundColor: "#fff8e1",
			Products: []folder.Product{
				{ID: "kaas", Name: "Goudse kaas", Description: "Jong belegen, per stuk van ongeveer 500 gram", Price: &price, Quantity: 2},
				{ID: "melk", Name: "Volle melk", ImageURL: "https://example.com/melk.png"},
				{ID: "brood", Name: "Volkoren brood"},
			},
		}},
	}
	req.SetDefaults()
	return plan.Assemble(req)
}

func TestNew(t *testing.T) {
	for _, f := range Formats() {
		w, err := New(Format(f), nil)
		if err != nil {
			t.Fatalf("New(%q) error: %v", f, err)
		}
		if string(w.Format()) != f {
			t.Errorf("New(%q).Format() = %q", f, w.Format())
		}
	}

	w, err := New("", nil)
	if err != nil || w.Format() != DefaultFormat {
		t.Errorf("New(\"\") = %v, %v; want default writer", w, err)
	}

	if _, err := New("docx", nil); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("New(docx) error = %v, want UNSUPPORTED", err)
	}
}

func TestExtension(t *testing.T) {
	tests := map[Format]string{FormatPDF: ".pdf", FormatSVGPDF: ".pdf", FormatSVG: ".svg", FormatPNG: ".png", FormatJSON: ".json", "": ".pdf"}
	for f, want := range tests {
		if got := Extension(f); got != want {
			t.Errorf("Extension(%q) = %q, want %q", f, got, want)
		}
	}
}

func TestPDF(t *testing.T) {
	for _, mode := range []folder.ColorMode{folder.ColorRGB, folder.ColorCMYK} {
		t.Run(string(mode), func(t *testing.T) {
			data, err := Bytes(context.Background(), NewPDF(nil), samplePlan(t, folder.Portrait), Options{ColorMode: mode, DPI: 300})
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Errorf("output does not start with a PDF header")
			}
			hasSpots := bytes.Contains(data, []byte("/Separation"))
			if hasSpots != (mode == folder.ColorCMYK) {
				t.Errorf("spot colors present = %v for %s", hasSpots, mode)
			}
		})
	}
}

func imagePlan(t *testing.T, refs ...string) *plan.Plan {
	t.Helper()
	page := folder.Page{Layout: folder.LayoutGrid}
	for i, ref := range refs {
		page.Products = append(page.Products, folder.Product{ID: string(rune('a' + i)), Name: "Appels", ImageURL: ref})
	}
	req := &folder.Request{Pages: []folder.Page{page}}
	req.SetDefaults()
	return plan.Assemble(req)
}

func TestPDFImages(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.png")
	f, err := os.Create(good)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	f.Close()
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		refs      []string
		wantImage bool
	}{
		{"decodable", []string{good}, true},
		{"corrupt", []string{bad}, false},
		{"corrupt twice", []string{bad, bad}, false},
		{"corrupt then decodable", []string{bad, good}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Bytes(context.Background(), NewPDF(nil), imagePlan(t, tt.refs...), Options{ColorMode: folder.ColorRGB, DPI: 300})
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Fatal("output does not start with a PDF header")
			}
			if got := bytes.Contains(data, []byte("/Subtype /Image")); got != tt.wantImage {
				t.Errorf("embedded image = %v, want %v", got, tt.wantImage)
			}
		})
	}
}

func TestSVG(t *testing.T) {
	p := samplePlan(t, folder.Landscape)
	data, err := RenderSVG(context.Background(), p)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	svg := string(data)

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`width="297.00mm"`,
		`Weekaanbiedingen &lt;vers&gt;`,
		`EUR 20.00`,
		`x2`,
		`Page 1 of 1`,
		`fill="#fff8e1"`,
		`data-product="kaas"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
	if strings.Count(svg, `class="card"`) != 3 {
		t.Errorf("card count = %d, want 3", strings.Count(svg, `class="card"`))
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	err := NewPNG(nil).Render(context.Background(), samplePlan(t, folder.Portrait), Options{DPI: 72}, &buf)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 596 || b.Dy() != 842 {
		t.Errorf("size = %dx%d, want 596x842", b.Dx(), b.Dy())
	}
}

func TestPNGDPI(t *testing.T) {
	tests := map[int]int{0: MaxPNGDPI, 50: folder.MinDPI, 72: 72, 150: 150, 300: MaxPNGDPI, 600: MaxPNGDPI}
	for in, want := range tests {
		if got := PNGDPI(in); got != want {
			t.Errorf("PNGDPI(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestPNGFit(t *testing.T) {
	pagesOf := func(n int) *plan.Plan {
		return &plan.Plan{Bounds: layout.A4(false), Pages: make([]plan.Page, n)}
	}
	tests := []struct {
		name      string
		pages     int
		requested int
		wantDPI   int
		wantPages int
	}{
		{"single page", 1, 300, MaxPNGDPI, 1},
		{"short folder", 10, 150, 150, 10},
		{"low dpi kept", 10, 72, 72, 10},
		{"long folder", 40, 150, -1, 40},
		{"very long folder", 500, 150, folder.MinDPI, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pagesOf(tt.pages)
			dpi, pages := PNGFit(p, tt.requested)
			if tt.wantDPI > 0 && dpi != tt.wantDPI {
				t.Errorf("dpi = %d, want %d", dpi, tt.wantDPI)
			}
			if dpi < folder.MinDPI || dpi > MaxPNGDPI {
				t.Errorf("dpi = %d outside %d..%d", dpi, folder.MinDPI, MaxPNGDPI)
			}
			if tt.wantPages > 0 && pages != tt.wantPages {
				t.Errorf("pages = %d, want %d", pages, tt.wantPages)
			}
			if got := canvasPixels(p, pages, dpi); got > MaxPNGPixels {
				t.Errorf("canvas = %d pixels, exceeds %d", got, MaxPNGPixels)
			}
			if pages < tt.pages && canvasPixels(p, pages+1, dpi) <= MaxPNGPixels {
				t.Errorf("pages = %d, but %d would still fit", pages, pages+1)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	p := samplePlan(t, folder.Portrait)
	data, err := Bytes(context.Background(), NewJSON(), p, Options{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	var decoded plan.Plan
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded.PageCount() != p.PageCount() || decoded.CardCount() != p.CardCount() {
		t.Errorf("decoded plan = %d pages %d cards, want %d/%d",
			decoded.PageCount(), decoded.CardCount(), p.PageCount(), p.CardCount())
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out", "folder.json")
	if err := WriteFile(context.Background(), NewJSON(), samplePlan(t, folder.Portrait), Options{}, dst); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if _, err := os.Stat(dst); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
	assertNoTemps(t, filepath.Dir(dst))
}

type failingWriter struct{}

func (failingWriter) Format() Format { return "failing" }

func (failingWriter) Render(_ context.Context, _ *plan.Plan, _ Options, w io.Writer) error {
	_, _ = w.Write([]byte("partial"))
	return goerrors.New("disk on fire")
}

func TestWriteFileFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "folder.pdf")
	err := WriteFile(context.Background(), failingWriter{}, samplePlan(t, folder.Portrait), Options{}, dst)
	if !errors.Is(err, errors.ErrCodeWriterFailed) {
		t.Fatalf("WriteFile() error = %v, want WRITER_FAILED", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("partial artifact exists at %s", dst)
	}
	assertNoTemps(t, dir)
}

func TestWriteFileCancelled(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WriteFile(ctx, NewPDF(nil), samplePlan(t, folder.Portrait), Options{}, filepath.Join(dir, "x.pdf"))
	if !goerrors.Is(err, context.Canceled) {
		t.Errorf("WriteFile() error = %v, want context.Canceled", err)
	}
	assertNoTemps(t, dir)
}

func TestSVGPDF(t *testing.T) {
	if !RSVGAvailable() {
		t.Skip("rsvg-convert not installed")
	}
	data, err := Bytes(context.Background(), NewSVGPDF(nil), samplePlan(t, folder.Portrait), Options{})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestLocalImage(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "a.png")
	if err := os.WriteFile(img, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		ref  string
		want bool
	}{
		{img, true},
		{"file://" + img, true},
		{filepath.Join(dir, "missing.png"), false},
		{filepath.Join(dir, "a.txt"), false},
		{"https://example.com/a.png", false},
		{"", false},
	}
	for _, tt := range tests {
		if _, got := localImage(tt.ref); got != tt.want {
			t.Errorf("localImage(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".folder-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
