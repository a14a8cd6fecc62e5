package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osa911/contact-api/internal/api/dto/v1/contact"
	"github.com/osa911/contact-api/internal/api/sanitization"
	"github.com/osa911/contact-api/internal/logging"
	"github.com/osa911/contact-api/internal/metrics"
	"github.com/osa911/contact-api/internal/models"
	"github.com/osa911/contact-api/internal/repository"
)

const tracerName = "github.com/osa911/contact-api/internal/service"

// SuccessMessage is returned to the submitter once a message is accepted
const SuccessMessage = "Message sent successfully. We'll get back to you shortly."

// maxMetaLength bounds the request headers copied onto a submission
const maxMetaLength = 512

// TokenVerifier checks a reCAPTCHA token
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string, minScore float64) error
}

// Notifier delivers a stored submission to the site owner
type Notifier interface {
	SendContactMessage(ctx context.Context, submission *models.Submission) error
}

// SubmissionMeta describes the request a submission arrived with
type SubmissionMeta struct {
	IPAddress string
	UserAgent string
	Referrer  string
	RequestID string
}

// ContactDeps are the collaborators of ContactService. Verifier and Notifier
// are optional.
type ContactDeps struct {
	Repository repository.SubmissionRepository
	Verifier   TokenVerifier
	Notifier   Notifier
	MinScore   float64
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// ContactService processes contact form submissions
type ContactService struct {
	repo     repository.SubmissionRepository
	verifier TokenVerifier
	notifier Notifier
	minScore float64
	metrics  *metrics.Metrics
	now      func() time.Time
	tracer   trace.Tracer
}

// NewContactService creates a new contact service
func NewContactService(deps ContactDeps) *ContactService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ContactService{
		repo:     deps.Repository,
		verifier: deps.Verifier,
		notifier: deps.Notifier,
		minScore: deps.MinScore,
		metrics:  deps.Metrics,
		now:      now,
		tracer:   otel.Tracer(tracerName),
	}
}

// ProcessContactForm verifies, stores and forwards one submission
func (s *ContactService) ProcessContactForm(ctx context.Context, req *contact.ContactRequest, meta *SubmissionMeta) (*contact.ContactResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ContactService.ProcessContactForm")
	defer span.End()

	if meta == nil {
		meta = &SubmissionMeta{}
	}
	logger := logging.GetLogger()

	if s.verifier != nil {
		if err := s.verify(ctx, req.RecaptchaToken); err != nil {
			s.metrics.ObserveSubmission(metrics.ResultRejected)
			span.SetStatus(codes.Error, "recaptcha")
			logger.Warn("Contact submission rejected for %s from %s: %v",
				logging.MaskEmail(req.Email), meta.IPAddress, err)
			return nil, err
		}
	}

	submission := &models.Submission{
		Name:      sanitization.SanitizeString(req.Name),
		Email:     sanitization.SanitizeEmail(req.Email),
		Phone:     sanitization.SanitizeString(req.Phone),
		Subject:   sanitization.SanitizeString(req.Subject),
		Message:   sanitization.SanitizeMessage(req.Message),
		IPAddress: meta.IPAddress,
		UserAgent: capRunes(meta.UserAgent, maxMetaLength),
		Referrer:  capRunes(meta.Referrer, maxMetaLength),
		RequestID: meta.RequestID,
	}
	submission.BeforeCreate(s.now())

	if err := s.store(ctx, submission); err != nil {
		s.metrics.ObserveSubmission(metrics.ResultFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "store")
		return nil, err
	}
	span.SetAttributes(attribute.String("submission.id", submission.ID))

	if s.notifier != nil {
		if err := s.notify(ctx, submission); err != nil {
			s.metrics.ObserveSubmission(metrics.ResultFailed)
			span.RecordError(err)
			span.SetStatus(codes.Error, "notify")
			return nil, err
		}
	}

	s.metrics.ObserveSubmission(metrics.ResultAccepted)
	logger.Info("Contact submission %s stored for %s", submission.ID, logging.MaskEmail(submission.Email))

	return &contact.ContactResponse{
		Success: true,
		Message: SuccessMessage,
		ID:      submission.ID,
	}, nil
}

func (s *ContactService) verify(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "recaptcha.verify")
	defer span.End()

	err := s.verifier.VerifyToken(ctx, token, s.minScore)
	if err == nil {
		return nil
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, ErrRecaptchaTokenMissing) || errors.Is(err, ErrRecaptchaRejected) {
		return NewBadRequestError("reCAPTCHA verification failed", err)
	}
	return fmt.Errorf("failed to verify reCAPTCHA: %w", err)
}

func (s *ContactService) store(ctx context.Context, submission *models.Submission) error {
	ctx, span := s.tracer.Start(ctx, "repository.create")
	defer span.End()

	if err := s.repo.Create(ctx, submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to store submission: %w", err)
	}
	return nil
}

func (s *ContactService) notify(ctx context.Context, submission *models.Submission) error {
	ctx, span := s.tracer.Start(ctx, "notifier.send")
	defer span.End()

	err := s.notifier.SendContactMessage(ctx, submission)
	s.metrics.ObserveNotification(err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.GetLogger().Error("Failed to send notification for submission %s: %v", submission.ID, err)
		return fmt.Errorf("%w: %w", ErrNotification, err)
	}
	return nil
}

// capRunes cuts s to at most n runes
func capRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
