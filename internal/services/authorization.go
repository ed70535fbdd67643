package services

import (
	"context"

	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/models"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
)

type rule int

const (
	// ownerOf: the caller is the user who posted the task.
	ownerOf rule = iota
	// assignedProviderOf: the caller holds the accepted offer on the task.
	assignedProviderOf
	// anyProvider: the caller has a provider role.
	anyProvider
)

func authorize(ctx context.Context, offers repository.OfferRepository, caller identity.Caller, task *models.Task, r rule) error {
	switch r {
	case ownerOf:
		if caller.IsUser() && task.OwnerID == caller.ActorID {
			return nil
		}
		return ErrNotTaskOwner
	case assignedProviderOf:
		if !caller.IsProvider() {
			return ErrNotAssignedProvider
		}
		holds, err := repository.HoldsAcceptedOffer(ctx, offers, task.ID, caller.ActorID)
		if err != nil {
			return storeError("check accepted offer", err)
		}
		if !holds {
			return ErrNotAssignedProvider
		}
		return nil
	case anyProvider:
		if caller.IsProvider() {
			return nil
		}
		return ErrProviderRoleRequired
	default:
		return ErrUnauthorized
	}
}
