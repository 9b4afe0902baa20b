package application

import (
	"context"
	"fmt"

	"github.com/bnema/spo-contact-sync/internal/domain"
	"github.com/bnema/spo-contact-sync/internal/ports"
)

// ApplyPlan drives directory through the plan: removals, then additions, then
// updates. A failed item is recorded and the rest of the plan still runs. A
// session-level failure stops the run: the report is marked aborted and the
// error is returned alongside it. Nothing is retried.
func ApplyPlan(ctx context.Context, directory ports.ContactDirectory, system domain.SystemID, plan domain.DiffPlan) (domain.ApplyReport, error) {
	report := domain.ApplyReport{System: system}

	apply := func(action domain.Action, key string, fields []string, op func() error) error {
		if err := ctx.Err(); err != nil {
			report.Aborted = true
			return err
		}

		var itemErr error
		if err := op(); err != nil {
			itemErr = &domain.ApplyError{System: system, Action: action, Key: key, Err: err}
		}
		report.Record(action, key, fields, itemErr)

		if itemErr != nil && domain.IsChannelError(itemErr) {
			report.Aborted = true
			return itemErr
		}
		return nil
	}

	for _, key := range plan.ToRemove {
		if err := apply(domain.ActionRemove, key, nil, func() error {
			return directory.ApplyRemove(ctx, system, key)
		}); err != nil {
			return report, fmt.Errorf("apply %s plan: %w", system, err)
		}
	}

	for _, contact := range plan.ToAdd {
		if err := apply(domain.ActionAdd, contact.Key, attributeNames(contact), func() error {
			return directory.ApplyAdd(ctx, system, contact)
		}); err != nil {
			return report, fmt.Errorf("apply %s plan: %w", system, err)
		}
	}

	for _, update := range plan.ToUpdate {
		if err := apply(domain.ActionUpdate, update.Key, update.Delta.Fields(), func() error {
			return directory.ApplyUpdate(ctx, system, update.Key, update.Delta)
		}); err != nil {
			return report, fmt.Errorf("apply %s plan: %w", system, err)
		}
	}

	return report, nil
}

func attributeNames(contact domain.Contact) []string {
	return domain.FieldDelta(contact.Attributes()).Fields()
}
