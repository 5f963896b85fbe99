package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/turnity/turnity/internal/domain"
)

// WeekSource is the backend week partition endpoint.
type WeekSource interface {
	GenerateWeeks(ctx context.Context, ref time.Time) ([]domain.Week, error)
}

// Partitioner fetches the weeks covering a reference date's month. Week
// boundaries are taken verbatim from the backend.
type Partitioner struct {
	src WeekSource
	log logrus.FieldLogger
}

func NewPartitioner(src WeekSource, log logrus.FieldLogger) *Partitioner {
	return &Partitioner{src: src, log: log}
}

// Weeks returns the ordered partition for ref's month. The result is
// rejected when the backend returns no weeks or weeks out of order.
func (p *Partitioner) Weeks(ctx context.Context, ref time.Time) ([]domain.Week, error) {
	weeks, err := p.src.GenerateWeeks(ctx, ref)
	if err != nil {
		p.log.WithError(err).WithField("ref", domain.FormatDate(ref)).Warn("week partition failed")
		return nil, fmt.Errorf("loading weeks: %w", err)
	}
	if len(weeks) == 0 {
		return nil, fmt.Errorf("loading weeks: %w", ErrNoWeeks)
	}
	if err := domain.ValidateWeeks(weeks); err != nil {
		return nil, fmt.Errorf("loading weeks: %w", err)
	}
	p.log.WithFields(logrus.Fields{
		"ref":   domain.FormatDate(ref),
		"weeks": len(weeks),
	}).Debug("weeks loaded")
	return weeks, nil
}
