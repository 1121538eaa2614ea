package view

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/kode4food/flowdesk/pkg/api"
)

type (
	// Icon is a built-in agentflow node glyph
	Icon struct {
		Name  string
		Color string
	}

	// Image is a node icon served by the console backend
	Image struct {
		Src   string
		Label string
	}
)

// NodeIconPath is the backend route serving images for non built-in nodes
const NodeIconPath = "/api/v1/node-icon/"

var ErrInvalidFlowData = errors.New("invalid flow data")

var agentflowIcons = map[string]string{
	"startAgentflow":          "#7EE787",
	"conditionAgentflow":      "#FFB938",
	"conditionAgentAgentflow": "#ff8fab",
	"llmAgentflow":            "#64B5F6",
	"agentAgentflow":          "#4DD0E1",
	"humanInputAgentflow":     "#6E6EFD",
	"loopAgentflow":           "#FFA07A",
	"directReplyAgentflow":    "#4DDBBB",
	"customFunctionAgentflow": "#E4B7FF",
	"toolAgentflow":           "#d4a373",
	"retrieverAgentflow":      "#b8bedd",
	"httpAgentflow":           "#FF7F7F",
	"iterationAgentflow":      "#9C89B8",
	"executeFlowAgentflow":    "#a3b18a",
}

var stickyNotes = map[string]bool{
	"stickyNote":          true,
	"stickyNoteAgentflow": true,
}

// NodeGlyphs derives the icons and images shown on a flow's card from its
// canvas document. Sticky notes are skipped, built-in nodes become icons,
// and every other node becomes one image per distinct node name
func NodeGlyphs(baseURL string, flow api.Agentflow) ([]Icon, []Image, error) {
	if !gjson.Valid(flow.FlowData) {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidFlowData, flow.ID)
	}

	icons := []Icon{}
	images := []Image{}
	seen := map[string]bool{}

	gjson.Get(flow.FlowData, "nodes").ForEach(
		func(_, node gjson.Result) bool {
			name := node.Get("data.name").String()
			if stickyNotes[name] {
				return true
			}
			if color, ok := agentflowIcons[name]; ok {
				icons = append(icons, Icon{Name: name, Color: color})
				return true
			}
			src := baseURL + NodeIconPath + name
			if !seen[src] {
				seen[src] = true
				images = append(images, Image{
					Src:   src,
					Label: node.Get("data.label").String(),
				})
			}
			return true
		},
	)
	return icons, images, nil
}
