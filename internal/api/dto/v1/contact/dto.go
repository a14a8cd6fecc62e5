package contact

import "github.com/osa911/contact-api/internal/api/sanitization"

// ContactRequest represents a contact form submission. Members not declared
// here are rejected by the validation policy before a handler runs.
type ContactRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=100,contact_name"`
	Email          string `json:"email" binding:"required,email,max=255"`
	Message        string `json:"message" binding:"required,min=10,max=5000"`
	Subject        string `json:"subject" binding:"omitempty,max=200"`
	Phone          string `json:"phone" binding:"omitempty,phone"`
	RecaptchaToken string `json:"recaptcha_token" binding:"omitempty,max=4096"`
}

// Sanitize normalizes the free-text fields in place
func (r *ContactRequest) Sanitize() {
	r.Name = sanitization.SanitizeString(r.Name)
	r.Email = sanitization.SanitizeEmail(r.Email)
	r.Phone = sanitization.SanitizeString(r.Phone)
	r.Subject = sanitization.SanitizeString(r.Subject)
	r.Message = sanitization.SanitizeMessage(r.Message)
}

// ContactResponse represents the response after submitting a contact form
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
