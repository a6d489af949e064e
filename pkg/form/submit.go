package form

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"
)

// Submission is the payload emitted when the last section validates.
type Submission struct {
	ID          string    `json:"id"`
	FormTitle   string    `json:"formTitle"`
	Values      Values    `json:"values"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Submitter receives the accumulated values on final submission.
type Submitter interface {
	Submit(ctx context.Context, submission Submission) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, submission Submission) error

// Submit calls fn.
func (fn SubmitterFunc) Submit(ctx context.Context, submission Submission) error {
	return fn(ctx, submission)
}

// LogSubmitter acknowledges submissions by logging the payload.
type LogSubmitter struct {
	logger *slog.Logger
}

// NewLogSubmitter returns a submitter writing to logger (discarding when nil).
func NewLogSubmitter(logger *slog.Logger) *LogSubmitter {
	return &LogSubmitter{logger: loggerOrDiscard(logger)}
}

// Submit logs the submission at info level.
func (s *LogSubmitter) Submit(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(submission.Values)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "form submitted",
		slog.String("submission_id", submission.ID),
		slog.String("form_title", submission.FormTitle),
		slog.Int("fields", len(submission.Values)),
		slog.String("payload", string(payload)),
	)
	return nil
}

// Chain fans a submission out to several submitters, stopping at the first
// failure.
func Chain(submitters ...Submitter) Submitter {
	return SubmitterFunc(func(ctx context.Context, submission Submission) error {
		for _, s := range submitters {
			if s == nil {
				continue
			}
			if err := s.Submit(ctx, submission); err != nil {
				return err
			}
		}
		return nil
	})
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
