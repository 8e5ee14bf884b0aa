// Package auth provides identity resolution, sessions, and API credentials
// for the litoral marketplace.
package auth

// Role identifies which profile collection a logged-in identity belongs to.
// It is a closed tag, not a hierarchy.
type Role string

const (
	RoleAdmin           Role = "admin"
	RoleTourist         Role = "tourist"
	RoleRealtor         Role = "realtor"
	RoleBusiness        Role = "business"
	RoleInfluencer      Role = "influencer"
	RoleServiceProvider Role = "service_provider"
)

// ValidRole returns true if r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleTourist, RoleRealtor, RoleBusiness, RoleInfluencer, RoleServiceProvider:
		return true
	}
	return false
}

// DashboardRoute returns the home route for a role after login.
func (r Role) DashboardRoute() string {
	switch r {
	case RoleAdmin:
		return "/dashboard"
	case RoleTourist:
		return "/user-profile"
	case RoleRealtor:
		return "/realtor-dashboard"
	case RoleBusiness:
		return "/business-profile"
	case RoleInfluencer:
		return "/influencer-profile"
	case RoleServiceProvider:
		return "/provider-dashboard"
	}
	return "/"
}

// SessionRecord is the sole representation of "who is logged in."
// At most one exists per session; it is stored server-side and referenced
// by an opaque cookie, never trusted from the client.
type SessionRecord struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`

	// Role-specific foreign keys, present only when relevant.
	TouristID         *int64 `json:"tourist_id,omitempty"`
	RealtorID         *int64 `json:"realtor_id,omitempty"`
	BusinessID        *int64 `json:"business_id,omitempty"`
	InfluencerID      *int64 `json:"influencer_id,omitempty"`
	ServiceProviderID *int64 `json:"service_provider_id,omitempty"`

	// Auxiliary fields copied from the matched profile.
	PointsBalance   *int64   `json:"points_balance,omitempty"`
	CashbackBalance *float64 `json:"cashback_balance,omitempty"`
	Status          string   `json:"status,omitempty"`
	UserCode        string   `json:"user_code,omitempty"`
}

// ContextPatch describes a role-context switch: the fields that replace
// their counterparts on the current record. Zero-valued fields are left
// untouched. InfluencerID is never cleared by a patch, so the originating
// identity survives every switch.
type ContextPatch struct {
	Role              Role
	FullName          string
	ID                int64
	RealtorID         *int64
	BusinessID        *int64
	ServiceProviderID *int64
	Status            string
	CashbackBalance   *float64
}

// apply shallow-merges the patch onto the record.
func (p ContextPatch) apply(rec *SessionRecord) {
	if p.Role != "" {
		rec.Role = p.Role
	}
	if p.FullName != "" {
		rec.FullName = p.FullName
	}
	if p.ID != 0 {
		rec.ID = p.ID
	}
	if p.RealtorID != nil {
		rec.RealtorID = p.RealtorID
	}
	if p.BusinessID != nil {
		rec.BusinessID = p.BusinessID
	}
	if p.ServiceProviderID != nil {
		rec.ServiceProviderID = p.ServiceProviderID
	}
	if p.Status != "" {
		rec.Status = p.Status
	}
	if p.CashbackBalance != nil {
		rec.CashbackBalance = p.CashbackBalance
	}
}
