package api

type (
	// FlowType distinguishes v2 agentflows from legacy multi-agent flows
	FlowType string

	// Agentflow is a saved flow definition as listed by the console
	Agentflow struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Category string   `json:"category,omitempty"`
		FlowData string   `json:"flowData"`
		Type     FlowType `json:"type"`
	}

	// AgentflowsResponse is a page of flows with the unpaginated total
	AgentflowsResponse struct {
		Data  []Agentflow `json:"data"`
		Total int         `json:"total"`
	}

	// FlowData is the canvas document stored in Agentflow.FlowData
	FlowData struct {
		Nodes []FlowNode `json:"nodes,omitempty"`
	}

	// FlowNode is a single canvas node
	FlowNode struct {
		Data FlowNodeData `json:"data"`
	}

	// FlowNodeData names the component a node instantiates
	FlowNodeData struct {
		Name  string `json:"name"`
		Label string `json:"label"`
	}
)

const (
	FlowTypeAgentflow  FlowType = "AGENTFLOW"
	FlowTypeMultiAgent FlowType = "MULTIAGENT"
)
