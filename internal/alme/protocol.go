package alme

import "encoding/json"

// Request is one management command. Cmd uses a flat or hierarchical name
// such as "ping" or "config:get"; Args carries command-specific parameters.
type Request struct {
	Cmd  string          `json:"cmd"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Response is the reply to one Request.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func successResponse(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

func errorResponse(message string) Response {
	return Response{Success: false, Message: message}
}
