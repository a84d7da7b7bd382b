package model

// Household is a shared group identity under which members record
// appliance sessions. The code is user-chosen at registration and
// immutable once created.
type Household struct {
	Code      string `json:"code"`
	CreatedAt int64  `json:"created_at"`
}

// HouseholdMember is one user's membership entry, keyed by (code, uid).
type HouseholdMember struct {
	HouseholdCode string `json:"household_code"`
	UID           string `json:"uid"`
	FullName      string `json:"full_name"`
	JoinedAt      int64  `json:"joined_at"`
}
