package repository

import (
	"context"

	"github.com/yukikurage/task-marketplace-api/internal/models"
)

// Preloads needed to render the provider behind an offer.
var OfferProviderPreloads = []string{
	"Provider",
	"Provider.Address",
	"Provider.IndividualDetails",
	"Provider.CompanyDetails",
}

func pendingOn(taskID string) []Condition {
	return []Condition{
		Where("task_id = ?", taskID),
		Where("is_accepted = ?", false),
		Where("is_rejected = ?", false),
	}
}

// AcceptedOffer returns the accepted offer on a task, or
// gorm.ErrRecordNotFound when there is none.
func AcceptedOffer(ctx context.Context, offers OfferRepository, taskID string) (*models.Offer, error) {
	return offers.First(ctx, Query{Where: []Condition{
		Where("task_id = ?", taskID),
		Where("is_accepted = ?", true),
	}})
}

// HasAcceptedOffer reports whether the task already has an accepted offer.
func HasAcceptedOffer(ctx context.Context, offers OfferRepository, taskID string) (bool, error) {
	return offers.Exists(ctx, Where("task_id = ?", taskID), Where("is_accepted = ?", true))
}

// HoldsAcceptedOffer reports whether providerID holds the accepted offer on taskID.
func HoldsAcceptedOffer(ctx context.Context, offers OfferRepository, taskID, providerID string) (bool, error) {
	return offers.Exists(ctx,
		Where("task_id = ?", taskID),
		Where("provider_id = ?", providerID),
		Where("is_accepted = ?", true),
	)
}

// CountPendingOffers counts undecided offers on a task.
func CountPendingOffers(ctx context.Context, offers OfferRepository, taskID string) (int64, error) {
	return offers.Count(ctx, Query{Where: pendingOn(taskID)})
}

// HasPendingOfferFrom reports whether providerID has an undecided offer on taskID.
func HasPendingOfferFrom(ctx context.Context, offers OfferRepository, taskID, providerID string) (bool, error) {
	return offers.Exists(ctx, append(pendingOn(taskID), Where("provider_id = ?", providerID))...)
}

// RejectPendingOffers rejects every undecided offer on a task.
func RejectPendingOffers(ctx context.Context, offers OfferRepository, taskID string) (int64, error) {
	return offers.UpdateWhere(ctx, pendingOn(taskID), map[string]interface{}{"is_rejected": true})
}

// DecideOffer records the owner's decision on a pending offer. It returns
// false when the offer was decided by someone else first.
func DecideOffer(ctx context.Context, offers OfferRepository, offerID string, accept bool) (bool, error) {
	affected, err := offers.Update(ctx, offerID,
		map[string]interface{}{"is_accepted": accept, "is_rejected": !accept},
		Where("is_accepted = ?", false),
		Where("is_rejected = ?", false),
	)
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
