package leads

import "strings"

// ContactForm is the project enquiry form.
type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Company string `json:"company" form:"company" validate:"max=100"`
	Phone   string `json:"phone" form:"phone" validate:"max=40"`
	Service string `json:"service" form:"service" validate:"omitempty,oneof=web-app-development cloud-infrastructure ui-ux-design data-engineering technical-audit other"`
	Budget  string `json:"budget" form:"budget" validate:"max=50"`
	Message string `json:"message" form:"message" validate:"required,min=10,max=5000"`
	Token   string `json:"token" form:"cf-turnstile-response"`
}

// NewsletterForm is the newsletter signup form.
type NewsletterForm struct {
	Email     string `json:"email" form:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName" form:"firstName" validate:"max=100"`
	Source    string `json:"source" form:"source" validate:"max=50"`
	Token     string `json:"token" form:"cf-turnstile-response"`
}

func (f *ContactForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Company = strings.TrimSpace(f.Company)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Service = strings.TrimSpace(f.Service)
	f.Budget = strings.TrimSpace(f.Budget)
	f.Message = strings.TrimSpace(f.Message)
}

func (f *NewsletterForm) normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.Source = strings.TrimSpace(f.Source)
	if f.Source == "" {
		f.Source = "website"
	}
}

// splitName splits a full name into first and last parts.
func splitName(full string) (string, string) {
	first, last, _ := strings.Cut(strings.TrimSpace(full), " ")
	return first, strings.TrimSpace(last)
}
