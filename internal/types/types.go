package types

type SummariseRequest struct {
	Text string `json:"text"`
}

type SummariseResponse struct {
	TLDR       string   `json:"tldr"`
	Bullets    []string `json:"bullets"`
	KeyActions []string `json:"key_actions"`
	Raw        string   `json:"raw"`
}

type InterpretRequest struct {
	Request string `json:"request"`
}

type InterpretResponse struct {
	Command string `json:"command"`
}

type AskRequest struct {
	Input    string `json:"input"`
	PageText string `json:"page_text,omitempty"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type HealthResponse struct {
	OK        bool `json:"ok"`
	KeyLoaded bool `json:"key_loaded"`
}

// ErrorResponse is the JSON envelope for every failure. Only Error is always
// set; the remaining fields carry upstream or diagnostic detail when known.
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Detail     string `json:"detail,omitempty"`
	RawText    string `json:"raw_text,omitempty"`
	Preview    string `json:"openai_response_preview,omitempty"`
	Traceback  string `json:"traceback,omitempty"`
}
