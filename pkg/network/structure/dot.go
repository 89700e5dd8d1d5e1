package structure

import (
	"fmt"

	"github.com/matzehuels/cartogen/pkg/network"
)

var tagColors = map[Tag]string{
	TagMain:      "#1f4e9c",
	TagTributary: "#5fa8d3",
	TagIsolated:  "#999999",
}

// Style returns a [network.DOTOptions] edge style that colors edges by tag
// and points them downstream. Unclassified edges are drawn dashed red.
func Style(c *Classification) func(*network.Edge) network.EdgeStyle {
	return func(e *network.Edge) network.EdgeStyle {
		info, ok := c.Edges[e.ID]
		if !ok {
			return network.EdgeStyle{Label: e.FeatureID, Color: "red", Width: 1, Dashed: true}
		}
		return network.EdgeStyle{
			Label:    fmt.Sprintf("%s (%d)", e.FeatureID, info.Order),
			Color:    tagColors[info.Tag],
			Width:    max(1, 4-float64(info.Order)),
			Dashed:   info.Tag == TagIsolated,
			Reversed: info.Downstream != "" && info.Downstream == e.From,
		}
	}
}
