package model

// Account is a credential record issued by the identity layer. The UID is
// stable and immutable; display attributes live on the User profile.
type Account struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    int64  `json:"created_at"`
}

// User is the profile document written alongside an account. HouseholdCode
// is set once at registration and scopes every session the user creates.
type User struct {
	UID           string `json:"uid"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	HouseholdCode string `json:"household_code"`
	CreatedAt     int64  `json:"created_at"`
}
