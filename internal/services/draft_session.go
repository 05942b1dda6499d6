package services

import (
	"context"
	"fmt"

	"github.com/diewo77/go-cotizaciones/internal/models"
)

// Session storage keys of the draft round-trip protocol.
const (
	DraftKey       = "cotizacion_draft"
	DraftReturnKey = "cotizacion_draft_return"
)

// KeyValueStore is the session-scoped storage the draft lives in.
type KeyValueStore interface {
	Get(ctx context.Context, key string, out any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// DraftSession persists a QuoteDraft across a trip to the product picker.
// A stored draft is only trusted when the one-shot return flag is present.
type DraftSession struct {
	store KeyValueStore
}

func NewDraftSession(store KeyValueStore) *DraftSession {
	return &DraftSession{store: store}
}

// Open is called when the quote form is entered. With both the draft and the
// return flag present the draft is restored and the flag consumed. A draft
// without the flag is stale and is deleted. restored reports which case applied.
func (s *DraftSession) Open(ctx context.Context) (draft *QuoteDraft, restored bool, err error) {
	stored := NewQuoteDraft()
	hasDraft, err := s.store.Get(ctx, DraftKey, stored)
	if err != nil {
		return nil, false, fmt.Errorf("open draft: %w", err)
	}
	var flag bool
	hasFlag, err := s.store.Get(ctx, DraftReturnKey, &flag)
	if err != nil {
		return nil, false, fmt.Errorf("open draft flag: %w", err)
	}

	switch {
	case hasDraft && hasFlag:
		if err := s.store.Delete(ctx, DraftReturnKey); err != nil {
			return nil, false, fmt.Errorf("consume draft flag: %w", err)
		}
		if stored.Items == nil {
			stored.Items = []models.QuoteItem{}
		}
		return stored, true, nil
	case hasDraft:
		if err := s.store.Delete(ctx, DraftKey); err != nil {
			return nil, false, fmt.Errorf("discard stale draft: %w", err)
		}
	case hasFlag:
		// flag without a draft carries nothing to restore
		if err := s.store.Delete(ctx, DraftReturnKey); err != nil {
			return nil, false, fmt.Errorf("consume draft flag: %w", err)
		}
	}
	return NewQuoteDraft(), false, nil
}

// Current loads the working copy without applying the round-trip policy.
func (s *DraftSession) Current(ctx context.Context) (*QuoteDraft, error) {
	d := NewQuoteDraft()
	if _, err := s.store.Get(ctx, DraftKey, d); err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	if d.Items == nil {
		d.Items = []models.QuoteItem{}
	}
	return d, nil
}

// Save writes the working copy.
func (s *DraftSession) Save(ctx context.Context, d *QuoteDraft) error {
	if err := s.store.Set(ctx, DraftKey, d); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// BeginPick saves the draft and raises the return flag before leaving for the picker.
func (s *DraftSession) BeginPick(ctx context.Context, d *QuoteDraft) error {
	if err := s.Save(ctx, d); err != nil {
		return err
	}
	if err := s.store.Set(ctx, DraftReturnKey, true); err != nil {
		return fmt.Errorf("set draft flag: %w", err)
	}
	return nil
}

// Clear drops the draft and the flag, after submission or on explicit request.
func (s *DraftSession) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, DraftKey); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	if err := s.store.Delete(ctx, DraftReturnKey); err != nil {
		return fmt.Errorf("clear draft flag: %w", err)
	}
	return nil
}
