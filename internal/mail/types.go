package mail

// Message is an outgoing plain-text email.
type Message struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// sendResponse is the mail API response body.
type sendResponse struct {
	ID string `json:"id"`
}

// errorResponse is returned by the mail API on failure.
type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}
