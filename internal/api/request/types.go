package request

// LoadPromptsRequest is the request body for replacing the prompt pool
type LoadPromptsRequest struct {
	Prompts []string `json:"prompts"`
}
