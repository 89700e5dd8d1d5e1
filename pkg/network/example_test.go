package network_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/network"
)

func ExampleBuild() {
	lines := []feature.Feature{
		{ID: "a", Geometry: orb.LineString{{0, 0}, {100, 0}}},
		// Ends 0.3 m short of the junction; snapped at 0.5 m tolerance.
		{ID: "b", Geometry: orb.LineString{{100, 50}, {100, 0.3}}},
	}

	g, warnings, failures := network.Build(lines, 0.5)
	fmt.Println("nodes:", g.NodeCount())
	fmt.Println("edges:", g.EdgeCount())
	fmt.Println("junction degree:", g.Degree(network.NodeID(orb.Point{100, 0})))
	fmt.Println("problems:", len(warnings)+len(failures))
	// Output:
	// nodes: 3
	// edges: 2
	// junction degree: 2
	// problems: 0
}
