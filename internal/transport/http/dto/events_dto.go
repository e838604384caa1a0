package dto

type EventRequest struct {
	Name  string         `json:"name"`
	TS    int64          `json:"ts,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

type EventsBatchRequest struct {
	Events []EventRequest `json:"events"`
}

type EventsBatchResponse struct {
	Accepted int `json:"accepted"`
}
