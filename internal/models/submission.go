package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission is an accepted contact form submission
type Submission struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string    `json:"message" bson:"message"`
	IPAddress string    `json:"ip_address,omitempty" bson:"ipAddress,omitempty"`
	UserAgent string    `json:"user_agent,omitempty" bson:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty" bson:"referrer,omitempty"`
	RequestID string    `json:"request_id,omitempty" bson:"requestId,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
}

// BeforeCreate fills the identity and timestamp of a new submission
func (s *Submission) BeforeCreate(now time.Time) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now.UTC()
	}
}
