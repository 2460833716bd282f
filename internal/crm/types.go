package crm

// Contact is a person record in the CRM.
type Contact struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Company   string   `json:"company,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Source    string   `json:"source,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// ContactInput holds the fields used to create a contact.
type ContactInput struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Company   string   `json:"company,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Source    string   `json:"source,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// listResponse is the raw response of the contact search endpoint.
type listResponse struct {
	Data []Contact `json:"data"`
}

// itemResponse wraps a single contact.
type itemResponse struct {
	Data Contact `json:"data"`
}

type noteRequest struct {
	Body string `json:"body"`
}
