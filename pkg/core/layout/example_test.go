package layout_test

import (
	"fmt"

	"github.com/aanbieding/folder/pkg/core/layout"
	"github.com/aanbieding/folder/pkg/folder"
)

func ExampleGrid_Layout() {
	b := layout.A4(false)
	items := []folder.Product{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	res := layout.Grid{}.Layout(items, b, layout.Cursor{Y: b.Top()})
	for _, p := range res.Placements {
		fmt.Printf("%s col=%d x=%.1f y=%.1f\n", p.Product.ID, p.Column, p.Region.X, p.Region.Y)
	}
	// Output:
	// a col=0 x=20.0 y=20.0
	// b col=1 x=107.5 y=20.0
	// c col=0 x=20.0 y=80.0
}

func ExampleForMode() {
	fmt.Println(layout.ForMode(folder.LayoutFeatured).Name())
	fmt.Println(layout.ForMode("unknown").Name())
	// Output:
	// featured
	// grid
}
