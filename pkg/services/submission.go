package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newtglobalgit/dmap-saas-request/pkg/models"
	"github.com/newtglobalgit/dmap-saas-request/pkg/utils"
)

// State is where a form session stands after a submit attempt.
type State string

const (
	AwaitingSubmission State = "awaiting_submission"
	Submitted          State = "submitted"
)

const (
	MsgMissingFields = "Please fill in all required fields marked with *"
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgInvalidPhone  = "Please enter a valid phone number with country code"
	MsgInvalidName   = "Please enter your full name using at least one Latin letter (a-z) or digit"
	MsgNotifyFailed  = "We could not notify the administrator about your request. Please try again later."
	MsgBlockNotFound = "The resource configuration file is not in the expected format. Please contact support."
	MsgConflict      = "The resource configuration changed while we were updating it. Please submit again."
	MsgRemoteFailed  = "Failed to update the GitHub repository. Please try again later or contact support."
	MsgUnknown       = "Something went wrong. Please try again later."
	MsgThankYou      = "Thank you for your request! Our team will review it and get back to you soon."
)

// Outcome is the result of one submit attempt. The UI layer carries it; the
// service keeps no session state.
type Outcome struct {
	State         State
	Stage         Stage
	Message       string
	Branch        string
	BranchCreated bool
	CommitSHA     string
	RequestID     string
	Err           error
}

// OK reports whether the request was fully recorded.
func (o Outcome) OK() bool {
	return o.State == Submitted
}

// SubmissionService defines the interface for handling form submissions
type SubmissionService interface {
	Submit(ctx context.Context, req models.ResourceRequest) Outcome
}

type submissionServiceImpl struct {
	notifier Notifier
	updater  RepositoryUpdater
	logger   *zap.Logger
}

// NewSubmissionService creates a new submission service
func NewSubmissionService(notifier Notifier, updater RepositoryUpdater, logger *zap.Logger) SubmissionService {
	return &submissionServiceImpl{
		notifier: notifier,
		updater:  updater,
		logger:   logger,
	}
}

// Submit runs validate -> notify -> update strictly in order and stops at
// the first failing step.
func (s *submissionServiceImpl) Submit(ctx context.Context, req models.ResourceRequest) Outcome {
	req = req.Normalize()
	requestID := uuid.NewString()
	log := s.logger.With(
		zap.String("request_id", requestID),
		zap.String("requester", utils.Fingerprint(req.Email)),
	)

	if err := Validate(req); err != nil {
		log.Info("submission rejected", zap.Error(err))
		return s.failure(requestID, err)
	}

	log.Info("processing submission", zap.String("branch", utils.BranchName(req.FullName)))

	if err := s.notifier.Notify(ctx, req); err != nil {
		log.Error("notification failed", zap.Error(err))
		return s.failure(requestID, err)
	}

	res, err := s.updater.Update(ctx, req)
	if err != nil {
		log.Error("repository update failed", zap.Error(err))
		return s.failure(requestID, err)
	}

	log.Info("submission recorded",
		zap.String("branch", res.Branch),
		zap.Bool("branch_created", res.Created),
		zap.String("commit", res.CommitSHA),
	)

	return Outcome{
		State:         Submitted,
		Stage:         StageNone,
		Message:       successMessage(res),
		Branch:        res.Branch,
		BranchCreated: res.Created,
		CommitSHA:     res.CommitSHA,
		RequestID:     requestID,
	}
}

// Validate checks required fields, then email, then phone, then that the
// name yields a branch of its own.
func Validate(req models.ResourceRequest) error {
	if missing := req.MissingRequired(); len(missing) > 0 {
		return &ValidationError{Err: ErrMissingFields, Fields: missing}
	}
	if !utils.ValidateEmail(req.Email) {
		return &ValidationError{Err: ErrInvalidEmail, Fields: []string{"email"}}
	}
	if !utils.ValidatePhone(req.Phone) {
		return &ValidationError{Err: ErrInvalidPhone, Fields: []string{"phone"}}
	}
	if utils.BranchStem(req.FullName) == "" {
		return &ValidationError{Err: ErrInvalidName, Fields: []string{"full_name"}}
	}
	return nil
}

func (s *submissionServiceImpl) failure(requestID string, err error) Outcome {
	stage, msg := Classify(err)
	return Outcome{
		State:     AwaitingSubmission,
		Stage:     stage,
		Message:   msg,
		RequestID: requestID,
		Err:       err,
	}
}

// Classify maps an error to the pipeline stage and the message shown to the user.
func Classify(err error) (Stage, string) {
	var (
		validationErr *ValidationError
		notifyErr     *NotifyError
		updateErr     *UpdateError
	)

	switch {
	case errors.As(err, &validationErr):
		switch {
		case errors.Is(err, ErrInvalidEmail):
			return StageValidation, MsgInvalidEmail
		case errors.Is(err, ErrInvalidPhone):
			return StageValidation, MsgInvalidPhone
		case errors.Is(err, ErrInvalidName):
			return StageValidation, MsgInvalidName
		default:
			return StageValidation, MsgMissingFields
		}
	case errors.As(err, &notifyErr):
		return StageNotification, MsgNotifyFailed
	case errors.As(err, &updateErr):
		switch updateErr.Kind {
		case UpdateBlockNotFound:
			return StageRepository, MsgBlockNotFound
		case UpdateConflict:
			return StageRepository, MsgConflict
		default:
			return StageRepository, MsgRemoteFailed
		}
	default:
		return StageUnknown, MsgUnknown
	}
}

func successMessage(res *UpdateResult) string {
	if res.Created {
		return fmt.Sprintf("%s A new branch '%s' has been created with your information.", MsgThankYou, res.Branch)
	}
	return fmt.Sprintf("%s Branch '%s' already existed and has been updated with your information.", MsgThankYou, res.Branch)
}
