package auth

import (
	"errors"
	"testing"

	"github.com/litoralapp/litoral/internal/profile"
)

func TestSwitchTargetToLinkedBusiness(t *testing.T) {
	rv, _, d := testResolver(t, Config{})

	b := seedBusiness(t, d, "Quiosque do Leo", "leo-biz@example.com")
	inf := seedInfluencer(t, d, &profile.Influencer{
		Name:       "Leo Costa",
		Email:      "leo@example.com",
		BusinessID: &b.ID,
	})

	rec := influencerRecord(inf, "leo@example.com")
	patch, err := rv.SwitchTarget(rec, RoleBusiness)
	if err != nil {
		t.Fatalf("switch target: %v", err)
	}
	if patch.Role != RoleBusiness {
		t.Errorf("patch role = %q, want business", patch.Role)
	}
	if patch.FullName != "Quiosque do Leo" {
		t.Errorf("patch full_name = %q, want business name", patch.FullName)
	}
	if patch.ID != b.ID {
		t.Errorf("patch id = %d, want %d", patch.ID, b.ID)
	}
}

func TestSwitchTargetWithoutLink(t *testing.T) {
	rv, _, d := testResolver(t, Config{})

	inf := seedInfluencer(t, d, &profile.Influencer{Name: "Solo", Email: "solo@example.com"})
	rec := influencerRecord(inf, "solo@example.com")

	_, err := rv.SwitchTarget(rec, RoleBusiness)
	if !errors.Is(err, ErrNoLinkedProfile) {
		t.Fatalf("err = %v, want ErrNoLinkedProfile", err)
	}
}

func TestSwitchTargetMissingSecondaryEntity(t *testing.T) {
	rv, _, d := testResolver(t, Config{})

	missing := int64(9999)
	inf := seedInfluencer(t, d, &profile.Influencer{Name: "Leo", Email: "leo2@example.com"})
	rec := influencerRecord(inf, "leo2@example.com")
	rec.BusinessID = &missing

	// The secondary entity must exist; otherwise no partial switch.
	if _, err := rv.SwitchTarget(rec, RoleBusiness); err == nil {
		t.Fatal("expected error for missing linked business")
	}
}

func TestSwitchTargetRoundTrip(t *testing.T) {
	rv, _, d := testResolver(t, Config{})

	b := seedBusiness(t, d, "Quiosque do Leo", "leo-biz@example.com")
	inf := seedInfluencer(t, d, &profile.Influencer{
		Name:       "Leo Costa",
		Email:      "leo@example.com",
		BusinessID: &b.ID,
	})

	rec := influencerRecord(inf, "leo@example.com")

	toBiz, err := rv.SwitchTarget(rec, RoleBusiness)
	if err != nil {
		t.Fatalf("switch to business: %v", err)
	}
	toBiz.apply(rec)

	if rec.InfluencerID == nil {
		t.Fatal("influencer linkage lost after forward switch")
	}

	back, err := rv.SwitchTarget(rec, RoleInfluencer)
	if err != nil {
		t.Fatalf("switch back: %v", err)
	}
	back.apply(rec)

	if rec.Role != RoleInfluencer {
		t.Errorf("role = %q, want influencer after round trip", rec.Role)
	}
	if rec.FullName != "Leo Costa" {
		t.Errorf("full_name = %q, want original name", rec.FullName)
	}
}
