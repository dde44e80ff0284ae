// internal/agent/models.go
package agent

const StatusSuccess = "success"

// Response is the normalized result of one capability call. Result is only
// meaningful when Status is "success"; its fields depend on the capability.
type Response struct {
	Status  string                 `json:"status"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Message string                 `json:"message,omitempty"`
}

func (r *Response) OK() bool {
	return r != nil && r.Status == StatusSuccess
}

type request struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// wireResponse accepts result either as an object or as a string holding
// JSON (optionally fenced), which some agents emit.
type wireResponse struct {
	Status   string      `json:"status"`
	Result   interface{} `json:"result"`
	Response interface{} `json:"response"`
	Message  string      `json:"message"`
	Error    string      `json:"error"`
}
