package models

// Donor defines the structure for donor accounts
type Donor struct {
	UID         string   `dynamodbav:"uid" json:"uid"`                                           // ✅ Partition Key (Firebase UID)
	Name        string   `dynamodbav:"name,omitempty" json:"name,omitempty"`                     // Full name of the donor
	Username    string   `dynamodbav:"username,omitempty" json:"username,omitempty"`             // Display name
	Email       string   `dynamodbav:"email,omitempty" json:"email,omitempty"`                   // Contact email
	PhoneNumber string   `dynamodbav:"phone_number,omitempty" json:"phone_number,omitempty"`     // Contact phone number
	DonationIDs []string `dynamodbav:"donation_ids,omitempty" json:"donation_ids,omitempty"`     // IDs of donations owned by this donor
	MatchIDs    []string `dynamodbav:"match_ids,omitempty" json:"match_ids,omitempty"`           // IDs of matches this donor is part of
	CreatedAt   string   `dynamodbav:"created_at,omitempty" json:"created_at,omitempty"`         // Timestamp of registration
}

// DonorsTable is the DynamoDB table name for donor accounts
const DonorsTable = "Donors"

// Back-reference array column names on the Donors table
const (
	DonorDonationIDsAttr = "donation_ids"
	DonorMatchIDsAttr    = "match_ids"
)
