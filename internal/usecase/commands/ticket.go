package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"lottery-sales/internal/domain/ticket"
	"lottery-sales/internal/infra"
	"lottery-sales/internal/infra/uow"
	"lottery-sales/internal/pkg/clock"
	"lottery-sales/internal/pkg/errs"
	"lottery-sales/internal/usecase/shared"
)

var (
	ErrInvalidRequest     = errs.New("invalid request")
	ErrWindowClosed       = errs.New("sales window closed")
	ErrQuotaExceeded      = errs.New("quota exceeded")
	ErrServiceUnavailable = errs.New("service unavailable")
)

// QuotaViolation reports one number that could not be sold at the
// requested volume, with the capacity still available at rejection time.
type QuotaViolation struct {
	Number    string
	Requested int32
	Remaining int32
}

// QuotaExceededError carries the full violation list so callers can tell
// the seller exactly which numbers to reduce. It is always marked with
// ErrQuotaExceeded.
type QuotaExceededError struct {
	Violations []QuotaViolation
}

func (e *QuotaExceededError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s (requested %d, remaining %d)", v.Number, v.Requested, v.Remaining)
	}
	return "quota exceeded for numbers: " + strings.Join(parts, ", ")
}

type IssueTicketInput struct {
	UserID     uuid.UUID
	ZoneID     int64
	DrawTypeID int64
	Lines      []ticket.LineInput
}

type TicketCommands interface {
	IssueTicket(ctx context.Context, input IssueTicketInput) (uuid.UUID, error)
}

type ticketUseCaseImpl struct {
	uow         shared.UnitOfWork
	catalog     CatalogReads
	invalidator ReportInvalidator
	clock       clock.Clock
	salesTZ     *time.Location
}

func NewTicketCommands(
	uow shared.UnitOfWork,
	catalog CatalogReads,
	invalidator ReportInvalidator,
	clk clock.Clock,
	salesTZ *time.Location,
) TicketCommands {
	return &ticketUseCaseImpl{
		uow:         uow,
		catalog:     catalog,
		invalidator: invalidator,
		clock:       clk,
		salesTZ:     salesTZ,
	}
}

// IssueTicket commits a multi-line sale atomically: either every line
// fits under its quota and the ticket exists, or nothing is recorded.
func (u *ticketUseCaseImpl) IssueTicket(ctx context.Context, input IssueTicketInput) (uuid.UUID, error) {
	if input.UserID == uuid.Nil || input.ZoneID <= 0 || input.DrawTypeID <= 0 {
		return uuid.Nil, errs.Mark(errs.New("missing user, zone or draw type"), ErrInvalidRequest)
	}
	lines, err := ticket.NewLines(input.Lines)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidRequest)
	}

	now := u.clock.Now().In(u.salesTZ)

	window, err := u.catalog.SalesWindow(ctx, input.ZoneID, input.DrawTypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, errs.Mark(err, ErrWindowClosed)
		}
		return uuid.Nil, errs.Wrap(err, "failed to load sales window")
	}
	if !window.OpenAt(now) {
		return uuid.Nil, errs.Mark(
			errs.New(fmt.Sprintf("sales closed at %s", window.Cutoff)), ErrWindowClosed)
	}

	limits, err := u.catalog.NumberLimits(ctx, input.ZoneID, input.DrawTypeID)
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to load number limits")
	}

	newTicket, err := ticket.NewTicket(input.UserID, input.ZoneID, input.DrawTypeID, lines, now)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidRequest)
	}

	salesDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.salesTZ)

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Lines arrive sorted by number, so concurrent tickets touch
		// ledger rows in the same order and cannot deadlock each other.
		var violations []QuotaViolation
		for _, line := range lines.All() {
			max, limited := limits[line.Number().String()]
			if !limited {
				continue
			}
			key := shared.QuotaKey{
				ZoneID:     input.ZoneID,
				DrawTypeID: input.DrawTypeID,
				SalesDate:  salesDate,
				Number:     line.Number().String(),
			}
			res, err := tx.Quotas().Reserve(ctx, key, max, line.Pieces())
			if err != nil {
				return errs.Wrap(err, "failed to reserve quota")
			}
			if !res.OK {
				violations = append(violations, QuotaViolation{
					Number:    line.Number().String(),
					Requested: line.Pieces(),
					Remaining: res.Remaining(),
				})
			}
		}
		if len(violations) > 0 {
			return errs.Mark(&QuotaExceededError{Violations: violations}, ErrQuotaExceeded)
		}
		return tx.Tickets().Create(ctx, newTicket)
	})
	if err != nil {
		return uuid.Nil, mapCommitError(err)
	}

	// Best effort. A failed eviction only delays report freshness until
	// the cache TTL expires.
	if _, err := u.invalidator.InvalidateScope(ctx, input.ZoneID, input.DrawTypeID, input.UserID); err != nil {
		slog.Warn("failed to invalidate report cache",
			"zone_id", input.ZoneID, "draw_type_id", input.DrawTypeID, "error", err)
	}

	return newTicket.ID(), nil
}

func mapCommitError(err error) error {
	switch {
	case errors.Is(err, ErrQuotaExceeded):
		return err
	case errors.Is(err, uow.ErrMaxRetriesExceeded):
		return errs.Mark(err, ErrServiceUnavailable)
	case infra.IsKind(err, infra.KindForeignKeyViolated):
		return errs.Mark(err, ErrInvalidRequest)
	case infra.IsKind(err, infra.KindLockTimeout):
		return errs.Mark(err, ErrServiceUnavailable)
	default:
		return errs.Wrap(err, "failed to commit ticket")
	}
}
