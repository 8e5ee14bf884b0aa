package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/litoralapp/litoral/internal/profile"
)

// Resolver determines which role an email/password pair belongs to and
// builds the role-tagged session record.
//
// The normal path is a single indexed lookup in the credentials table.
// Profiles imported before the credentials table carried a role tag are
// resolved by probing the profile collections in a fixed order:
// tourist, then realtor, then business, then influencer. First match wins.
// Passwords are always bcrypt-verified; there is no email-existence login.
type Resolver struct {
	creds       *CredentialStore
	tourists    *profile.TouristRepository
	realtors    *profile.RealtorRepository
	businesses  *profile.BusinessRepository
	influencers *profile.InfluencerRepository
	providers   *profile.ServiceProviderRepository

	adminEmail        string
	adminPasswordHash string
}

// NewResolver creates an identity resolver.
func NewResolver(
	creds *CredentialStore,
	tourists *profile.TouristRepository,
	realtors *profile.RealtorRepository,
	businesses *profile.BusinessRepository,
	influencers *profile.InfluencerRepository,
	providers *profile.ServiceProviderRepository,
	cfg Config,
) *Resolver {
	return &Resolver{
		creds:             creds,
		tourists:          tourists,
		realtors:          realtors,
		businesses:        businesses,
		influencers:       influencers,
		providers:         providers,
		adminEmail:        strings.ToLower(cfg.AdminEmail),
		adminPasswordHash: cfg.AdminPasswordHash,
	}
}

// Resolve authenticates an email/password pair and returns the session
// record for the matched identity. Returns ErrInvalidCredentials on any
// mismatch; the caller must not reveal which step failed.
func (rv *Resolver) Resolve(email, password string) (*SessionRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	// Admin is checked first, outside the credentials table.
	if rv.adminEmail != "" && email == rv.adminEmail {
		if err := bcrypt.CompareHashAndPassword([]byte(rv.adminPasswordHash), []byte(password)); err == nil {
			return &SessionRecord{
				Email:    email,
				FullName: "Administrator",
				Role:     RoleAdmin,
			}, nil
		}
		// Wrong password for the admin email still falls through: the
		// email may also belong to a regular account.
	}

	cred, err := rv.creds.Verify(email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if cred.Role != "" {
		rec, err := rv.buildRecord(cred.Role, cred.ProfileID, email)
		if err == nil {
			return rec, nil
		}
		slog.Warn("profile lookup failed, falling back to probe",
			"role", cred.Role, "profile_id", cred.ProfileID, "error", err)
	}

	// Legacy probe, fixed order, first match wins. A failed fetch for one
	// role is logged and treated as no match for that role.
	if rec := rv.probeTourist(email); rec != nil {
		return rec, nil
	}
	if rec := rv.probeRealtor(email); rec != nil {
		return rec, nil
	}
	if rec := rv.probeBusiness(email); rec != nil {
		return rec, nil
	}
	if rec := rv.probeInfluencer(email); rec != nil {
		return rec, nil
	}

	return nil, ErrInvalidCredentials
}

// ResolveEmail builds the session record for an already-authenticated
// email, as after a successful passkey assertion. It performs no
// password check and must never be reachable from a password form.
func (rv *Resolver) ResolveEmail(email string) (*SessionRecord, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	if rv.adminEmail != "" && email == rv.adminEmail {
		return &SessionRecord{Email: email, FullName: "Administrator", Role: RoleAdmin}, nil
	}

	cred, err := rv.creds.Get(email)
	if err != nil {
		return nil, err
	}
	if cred != nil && cred.Role != "" {
		rec, err := rv.buildRecord(cred.Role, cred.ProfileID, email)
		if err == nil {
			return rec, nil
		}
		slog.Warn("profile lookup failed, falling back to probe",
			"role", cred.Role, "profile_id", cred.ProfileID, "error", err)
	}

	if rec := rv.probeTourist(email); rec != nil {
		return rec, nil
	}
	if rec := rv.probeRealtor(email); rec != nil {
		return rec, nil
	}
	if rec := rv.probeBusiness(email); rec != nil {
		return rec, nil
	}
	if rec := rv.probeInfluencer(email); rec != nil {
		return rec, nil
	}

	return nil, ErrInvalidCredentials
}

// buildRecord loads the profile for a role-tagged credential.
func (rv *Resolver) buildRecord(role Role, profileID int64, email string) (*SessionRecord, error) {
	switch role {
	case RoleTourist:
		t, err := rv.tourists.GetByID(profileID)
		if err != nil {
			return nil, err
		}
		return touristRecord(t, email), nil
	case RoleRealtor:
		rl, err := rv.realtors.GetByID(profileID)
		if err != nil {
			return nil, err
		}
		return realtorRecord(rl, email), nil
	case RoleBusiness:
		b, err := rv.businesses.GetByID(profileID)
		if err != nil {
			return nil, err
		}
		return businessRecord(b, email), nil
	case RoleInfluencer:
		inf, err := rv.influencers.GetByID(profileID)
		if err != nil {
			return nil, err
		}
		return influencerRecord(inf, email), nil
	case RoleServiceProvider:
		sp, err := rv.providers.GetByID(profileID)
		if err != nil {
			return nil, err
		}
		return providerRecord(sp, email), nil
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

func (rv *Resolver) probeTourist(email string) *SessionRecord {
	t, err := rv.tourists.GetByEmail(email)
	if err != nil {
		slog.Warn("tourist probe failed", "error", err)
		return nil
	}
	if t == nil {
		return nil
	}
	return touristRecord(t, email)
}

func (rv *Resolver) probeRealtor(email string) *SessionRecord {
	rl, err := rv.realtors.GetByEmail(email)
	if err != nil {
		slog.Warn("realtor probe failed", "error", err)
		return nil
	}
	if rl == nil {
		return nil
	}
	return realtorRecord(rl, email)
}

func (rv *Resolver) probeBusiness(email string) *SessionRecord {
	b, err := rv.businesses.GetByEmail(email)
	if err != nil {
		slog.Warn("business probe failed", "error", err)
		return nil
	}
	if b == nil {
		return nil
	}
	return businessRecord(b, email)
}

func (rv *Resolver) probeInfluencer(email string) *SessionRecord {
	inf, err := rv.influencers.GetByEmail(email)
	if err != nil {
		slog.Warn("influencer probe failed", "error", err)
		return nil
	}
	if inf == nil {
		return nil
	}
	return influencerRecord(inf, email)
}

func touristRecord(t *profile.Tourist, email string) *SessionRecord {
	points := t.PointsBalance
	cashback := t.CashbackBalance
	id := t.ID
	return &SessionRecord{
		ID:              t.ID,
		Email:           email,
		FullName:        t.Name,
		Role:            RoleTourist,
		TouristID:       &id,
		PointsBalance:   &points,
		CashbackBalance: &cashback,
		UserCode:        t.UserCode,
	}
}

func realtorRecord(rl *profile.Realtor, email string) *SessionRecord {
	id := rl.ID
	return &SessionRecord{
		ID:        rl.ID,
		Email:     email,
		FullName:  rl.Name,
		Role:      RoleRealtor,
		RealtorID: &id,
		Status:    string(rl.Status),
	}
}

func businessRecord(b *profile.Business, email string) *SessionRecord {
	id := b.ID
	cashback := b.CashbackBalance
	return &SessionRecord{
		ID:              b.ID,
		Email:           email,
		FullName:        b.BusinessName,
		Role:            RoleBusiness,
		BusinessID:      &id,
		CashbackBalance: &cashback,
		Status:          string(b.Status),
	}
}

func influencerRecord(inf *profile.Influencer, email string) *SessionRecord {
	id := inf.ID
	return &SessionRecord{
		ID:                inf.ID,
		Email:             email,
		FullName:          inf.Name,
		Role:              RoleInfluencer,
		InfluencerID:      &id,
		BusinessID:        inf.BusinessID,
		RealtorID:         inf.RealtorID,
		ServiceProviderID: inf.ServiceProviderID,
		UserCode:          inf.UserCode,
	}
}

func providerRecord(sp *profile.ServiceProvider, email string) *SessionRecord {
	id := sp.ID
	return &SessionRecord{
		ID:                sp.ID,
		Email:             email,
		FullName:          sp.Name,
		Role:              RoleServiceProvider,
		ServiceProviderID: &id,
		Status:            string(sp.Status),
	}
}
