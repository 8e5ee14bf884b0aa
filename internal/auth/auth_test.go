package auth

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/litoralapp/litoral/internal/db"
	"github.com/litoralapp/litoral/internal/profile"
)

// testDB opens a fresh SQLite database for one test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	d, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return d
}

// testResolver wires a resolver over a fresh database.
func testResolver(t *testing.T, cfg Config) (*Resolver, *CredentialStore, *sql.DB) {
	t.Helper()
	d := testDB(t)
	creds := NewCredentialStore(d)
	rv := NewResolver(
		creds,
		profile.NewTouristRepository(d),
		profile.NewRealtorRepository(d),
		profile.NewBusinessRepository(d),
		profile.NewInfluencerRepository(d),
		profile.NewServiceProviderRepository(d),
		cfg,
	)
	return rv, creds, d
}

func seedTourist(t *testing.T, d *sql.DB, name, email string) *profile.Tourist {
	t.Helper()
	tr, err := profile.NewTouristRepository(d).Create(&profile.Tourist{Name: name, Email: email})
	if err != nil {
		t.Fatalf("seed tourist: %v", err)
	}
	return tr
}

func seedRealtor(t *testing.T, d *sql.DB, name, email string) *profile.Realtor {
	t.Helper()
	rl, err := profile.NewRealtorRepository(d).Create(&profile.Realtor{Name: name, Email: email})
	if err != nil {
		t.Fatalf("seed realtor: %v", err)
	}
	return rl
}

func seedBusiness(t *testing.T, d *sql.DB, name, email string) *profile.Business {
	t.Helper()
	b, err := profile.NewBusinessRepository(d).Create(&profile.Business{BusinessName: name, BusinessEmail: email})
	if err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return b
}

func seedInfluencer(t *testing.T, d *sql.DB, inf *profile.Influencer) *profile.Influencer {
	t.Helper()
	saved, err := profile.NewInfluencerRepository(d).Create(inf)
	if err != nil {
		t.Fatalf("seed influencer: %v", err)
	}
	return saved
}
