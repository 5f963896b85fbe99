package grid

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/turnity/turnity/internal/domain"
	"github.com/turnity/turnity/internal/turnityapi"
)

// ShiftSink is the backend submission endpoint.
type ShiftSink interface {
	CreateEmployeeShifts(ctx context.Context, req turnityapi.CreateShiftsRequest) (*turnityapi.CreateShiftsResponse, error)
}

// OutcomeKind classifies a submission attempt.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeNoChanges
	OutcomeFailure
	OutcomeConnectionError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeNoChanges:
		return "no changes"
	case OutcomeFailure:
		return "failure"
	case OutcomeConnectionError:
		return "connection error"
	default:
		return "unknown"
	}
}

// Outcome is the interpreted result of one submission.
type Outcome struct {
	Kind      OutcomeKind
	Created   int
	Updated   int
	Skipped   int
	Incidents []domain.Incident
	Message   string
}

// Submitter posts payloads and classifies the answer.
type Submitter struct {
	sink ShiftSink
	log  logrus.FieldLogger
}

func NewSubmitter(sink ShiftSink, log logrus.FieldLogger) *Submitter {
	return &Submitter{sink: sink, log: log}
}

// Submit posts p. The Outcome is always meaningful; the error carries the
// transport or backend failure behind a ConnectionError or Failure outcome.
func (s *Submitter) Submit(ctx context.Context, p Payload) (Outcome, error) {
	resp, err := s.sink.CreateEmployeeShifts(ctx, p)
	if err != nil {
		out := Outcome{Kind: OutcomeFailure, Message: "could not save shifts: " + err.Error()}
		if turnityapi.IsNetwork(err) || errors.Is(err, context.DeadlineExceeded) {
			out = Outcome{Kind: OutcomeConnectionError, Message: "could not reach the server"}
		}
		s.log.WithError(err).WithField("outcome", out.Kind.String()).Warn("shift submission failed")
		return out, err
	}

	out := ClassifyResponse(resp)
	s.log.WithFields(logrus.Fields{
		"outcome":   out.Kind.String(),
		"created":   out.Created,
		"updated":   out.Updated,
		"skipped":   out.Skipped,
		"incidents": len(out.Incidents),
	}).Info("shifts submitted")
	return out, nil
}

// ClassifyResponse applies the outcome priority: any created or updated
// record is success; otherwise skipped records mean no changes; anything
// else is a failure carrying the reported incidents.
func ClassifyResponse(resp *turnityapi.CreateShiftsResponse) Outcome {
	out := Outcome{
		Created:   resp.Results.Created,
		Updated:   resp.Results.Updated,
		Skipped:   resp.Results.Skipped,
		Incidents: resp.Incidents(),
	}
	switch {
	case out.Created > 0 || out.Updated > 0:
		out.Kind = OutcomeSuccess
		out.Message = "shifts saved"
	case out.Skipped > 0:
		out.Kind = OutcomeNoChanges
		out.Message = "no changes"
	default:
		out.Kind = OutcomeFailure
		out.Message = domain.CoalesceStr(resp.Message, "shifts were not saved")
		if len(out.Incidents) > 0 {
			out.Message = "shifts were not saved; see incidents"
		}
	}
	return out
}
