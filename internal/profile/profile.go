// Package profile provides the role-partitioned account profiles and their
// data access: tourists, realtors, businesses, influencers, and service
// providers.
package profile

// ApprovalStatus represents where a profile is in the admin approval workflow.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// ValidApprovalStatus returns true if s is a known approval status.
func ValidApprovalStatus(s string) bool {
	switch ApprovalStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}
