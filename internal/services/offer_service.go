package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/lifecycle"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"gorm.io/gorm"
)

// SubmitOfferInput represents a provider's bid on a task
type SubmitOfferInput struct {
	TaskID  string
	Rate    decimal.Decimal
	Message string
}

// RespondToOfferInput represents the owner's decision on an offer
type RespondToOfferInput struct {
	OfferID string
	Accept  bool
}

// SubmitOffer records a pending offer from the calling provider and moves the
// task to offer_pending.
func (s *TaskService) SubmitOffer(ctx context.Context, caller identity.Caller, input SubmitOfferInput) (*models.Offer, error) {
	if err := authorize(ctx, nil, caller, nil, anyProvider); err != nil {
		return nil, err
	}
	if !input.Rate.IsPositive() {
		return nil, ErrOfferRateNotPositive
	}

	offer := &models.Offer{
		Rate:       input.Rate,
		Message:    strings.TrimSpace(input.Message),
		TaskID:     input.TaskID,
		ProviderID: caller.ActorID,
	}

	err := s.write(ctx, func(ctx context.Context, st repository.Stores) ([]transition, error) {
		task, err := lockTask(ctx, st, input.TaskID)
		if err != nil {
			return nil, err
		}

		providerExists, err := st.Providers.Exists(ctx, repository.Where("id = ?", caller.ActorID))
		if err != nil {
			return nil, storeError("check provider", err)
		}
		if !providerExists {
			return nil, ErrProviderNotFound
		}

		accepted, err := repository.HasAcceptedOffer(ctx, st.Offers, task.ID)
		if err != nil {
			return nil, storeError("check accepted offer", err)
		}
		if accepted {
			return nil, ErrOfferAlreadyAccepted
		}

		if _, err := nextStatus(task, lifecycle.EventOfferSubmitted, lifecycle.Facts{}); err != nil {
			return nil, err
		}

		duplicate, err := repository.HasPendingOfferFrom(ctx, st.Offers, task.ID, caller.ActorID)
		if err != nil {
			return nil, storeError("check pending offers", err)
		}
		if duplicate {
			return nil, ErrDuplicatePendingOffer
		}

		if err := st.Offers.Create(ctx, offer); err != nil {
			return nil, storeError("create offer", err)
		}

		return advance(ctx, st, task, lifecycle.EventOfferSubmitted, lifecycle.Facts{}, caller)
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// RespondToOffer accepts or rejects a pending offer. Accepting rejects every
// other pending offer on the task in the same transaction.
func (s *TaskService) RespondToOffer(ctx context.Context, caller identity.Caller, input RespondToOfferInput) (*models.Offer, error) {
	var offer *models.Offer
	err := s.write(ctx, func(ctx context.Context, st repository.Stores) ([]transition, error) {
		var err error
		offer, err = st.Offers.Get(ctx, input.OfferID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOfferNotFound
			}
			return nil, storeError("find offer", err)
		}

		task, err := lockTask(ctx, st, offer.TaskID)
		if err != nil {
			return nil, err
		}
		if err := authorize(ctx, st.Offers, caller, task, ownerOf); err != nil {
			return nil, err
		}

		// Re-read under the task lock so a concurrent decision is visible.
		offer, err = st.Offers.Get(ctx, input.OfferID)
		if err != nil {
			return nil, storeError("reload offer", err)
		}
		if !offer.IsPending() {
			return nil, ErrOfferAlreadyDecided
		}

		accepted, err := repository.HasAcceptedOffer(ctx, st.Offers, task.ID)
		if err != nil {
			return nil, storeError("check accepted offer", err)
		}
		if accepted {
			return nil, ErrOfferAlreadyAccepted
		}

		event := lifecycle.EventOfferRejected
		if input.Accept {
			event = lifecycle.EventOfferAccepted
		}

		pending, err := repository.CountPendingOffers(ctx, st.Offers, task.ID)
		if err != nil {
			return nil, storeError("count pending offers", err)
		}
		facts := lifecycle.Facts{PendingOffers: int(pending) - 1}
		if _, err := nextStatus(task, event, facts); err != nil {
			return nil, err
		}

		decided, err := repository.DecideOffer(ctx, st.Offers, offer.ID, input.Accept)
		if err != nil {
			return nil, storeError("decide offer", err)
		}
		if !decided {
			return nil, ErrOfferAlreadyDecided
		}
		offer.IsAccepted = input.Accept
		offer.IsRejected = !input.Accept

		if input.Accept {
			if _, err := repository.RejectPendingOffers(ctx, st.Offers, task.ID); err != nil {
				return nil, storeError("reject competing offers", err)
			}
		}

		return advance(ctx, st, task, event, facts, caller)
	})
	if err != nil {
		return nil, err
	}
	return offer, nil
}

// ListOffersForTask lists the offers on a task the caller owns, with the
// bidding provider's profile.
func (s *TaskService) ListOffersForTask(ctx context.Context, caller identity.Caller, taskID string) ([]models.Offer, error) {
	if !caller.IsUser() {
		return nil, ErrNotTaskOwner
	}

	owned, err := s.stores.Tasks.Exists(ctx,
		repository.Where("id = ?", taskID),
		repository.Where("owner_id = ?", caller.ActorID),
	)
	if err != nil {
		return nil, storeError("check task owner", err)
	}
	if !owned {
		return nil, ErrNotTaskOwner
	}

	offers, err := s.stores.Offers.Find(ctx, repository.Query{
		Where:   []repository.Condition{repository.Where("task_id = ?", taskID)},
		Order:   "created_at ASC",
		Preload: repository.OfferProviderPreloads,
	})
	if err != nil {
		return nil, storeError("list offers", err)
	}
	return offers, nil
}
