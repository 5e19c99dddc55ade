package subscriptions

import (
	"context"
	"errors"
	"net/http"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/metrics"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/mailer"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

type Service struct {
	repo       subscriptionrepo.Repository
	dispatcher mailer.Dispatcher
	metrics    metrics.SubscriptionMetrics
	log        *logger.Logger
}

// NewService wires the intake pipeline. dispatcher may be nil, in which case no
// welcome email is sent.
func NewService(repo subscriptionrepo.Repository, dispatcher mailer.Dispatcher, m metrics.SubscriptionMetrics, log *logger.Logger) *Service {
	if m == nil {
		m = metrics.Nop{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{repo: repo, dispatcher: dispatcher, metrics: m, log: log}
}

// Subscribe validates the form, stores the subscription and sends the welcome email.
//
// Validation failures return *Error with Status 400 and the reason as Message.
// Storage failures return *Error with Status 500 and no detail in Message.
// A failed welcome email is logged and does not fail the request.
func (s *Service) Subscribe(ctx context.Context, in Form) (domain.Subscription, error) {
	ns, err := domain.NewSubscriberFromForm(in.Name, in.Email)
	if err != nil {
		s.metrics.IncSubscription(metrics.OutcomeRejected)
		return domain.Subscription{}, &Error{
			Status:  http.StatusBadRequest,
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
			Err:     err,
		}
	}

	// A started insert completes even if the client goes away.
	sub, err := s.repo.Insert(context.WithoutCancel(ctx), ns)
	if err != nil {
		s.metrics.IncSubscription(metrics.OutcomeFailed)
		s.log.Error("saving subscription failed",
			"email", ns.Email.String(),
			"constraint", errors.Is(err, subscriptionrepo.ErrConstraintViolation),
			"error", err,
		)
		return domain.Subscription{}, &Error{
			Status: http.StatusInternalServerError,
			Code:   "INTERNAL",
			Err:    err,
		}
	}
	s.metrics.IncSubscription(metrics.OutcomeAccepted)
	s.log.Info("new subscriber saved", "subscription_id", sub.ID.String(), "email", sub.Email)

	if s.dispatcher != nil {
		s.sendWelcome(ctx, ns)
	}
	return sub, nil
}

func (s *Service) sendWelcome(ctx context.Context, ns domain.NewSubscriber) {
	htmlBody, textBody := welcomeBodies(ns.Name.String())
	if err := s.dispatcher.Send(ctx, ns.Email, welcomeSubject, htmlBody, textBody); err != nil {
		s.metrics.IncDispatch(metrics.OutcomeFailed)
		s.log.Warn("welcome email failed", "recipient", ns.Email.String(), "error", err)
		return
	}
	s.metrics.IncDispatch(metrics.OutcomeSent)
}

// Ready reports whether the subscription store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
