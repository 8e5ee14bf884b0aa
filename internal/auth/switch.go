package auth

import (
	"errors"
	"fmt"
)

// ErrNoLinkedProfile signals a context switch toward a role the current
// identity has no link to.
var ErrNoLinkedProfile = errors.New("auth: no linked profile for that role")

// SwitchTarget builds the context patch for switching the current session
// into one of its linked secondary profiles, or back to the originating
// influencer. The secondary entity is fetched and must exist; otherwise no
// partial switch happens. The influencer linkage fields are never dropped,
// so the reverse switch stays possible.
func (rv *Resolver) SwitchTarget(rec *SessionRecord, target Role) (ContextPatch, error) {
	switch target {
	case RoleBusiness:
		if rec.BusinessID == nil {
			return ContextPatch{}, ErrNoLinkedProfile
		}
		b, err := rv.businesses.GetByID(*rec.BusinessID)
		if err != nil {
			return ContextPatch{}, fmt.Errorf("fetching linked business: %w", err)
		}
		id := b.ID
		cashback := b.CashbackBalance
		return ContextPatch{
			Role:            RoleBusiness,
			FullName:        b.BusinessName,
			ID:              b.ID,
			BusinessID:      &id,
			Status:          string(b.Status),
			CashbackBalance: &cashback,
		}, nil

	case RoleRealtor:
		if rec.RealtorID == nil {
			return ContextPatch{}, ErrNoLinkedProfile
		}
		rl, err := rv.realtors.GetByID(*rec.RealtorID)
		if err != nil {
			return ContextPatch{}, fmt.Errorf("fetching linked realtor: %w", err)
		}
		id := rl.ID
		return ContextPatch{
			Role:      RoleRealtor,
			FullName:  rl.Name,
			ID:        rl.ID,
			RealtorID: &id,
			Status:    string(rl.Status),
		}, nil

	case RoleServiceProvider:
		if rec.ServiceProviderID == nil {
			return ContextPatch{}, ErrNoLinkedProfile
		}
		sp, err := rv.providers.GetByID(*rec.ServiceProviderID)
		if err != nil {
			return ContextPatch{}, fmt.Errorf("fetching linked service provider: %w", err)
		}
		id := sp.ID
		return ContextPatch{
			Role:              RoleServiceProvider,
			FullName:          sp.Name,
			ID:                sp.ID,
			ServiceProviderID: &id,
			Status:            string(sp.Status),
		}, nil

	case RoleInfluencer:
		// Reverse switch: back to the originating influencer identity.
		if rec.InfluencerID == nil {
			return ContextPatch{}, ErrNoLinkedProfile
		}
		inf, err := rv.influencers.GetByID(*rec.InfluencerID)
		if err != nil {
			return ContextPatch{}, fmt.Errorf("fetching influencer: %w", err)
		}
		return ContextPatch{
			Role:              RoleInfluencer,
			FullName:          inf.Name,
			ID:                inf.ID,
			BusinessID:        inf.BusinessID,
			RealtorID:         inf.RealtorID,
			ServiceProviderID: inf.ServiceProviderID,
		}, nil
	}

	return ContextPatch{}, fmt.Errorf("cannot switch context to role %q", target)
}
