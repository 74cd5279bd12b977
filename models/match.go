package models

// MatchStatus tracks which parties have confirmed a match. It is a closed
// enumeration: pending -> donor/shelter -> both, where "both" is terminal.
type MatchStatus string

const (
	MatchStatusPending MatchStatus = "pending"
	MatchStatusDonor   MatchStatus = "donor"
	MatchStatusShelter MatchStatus = "shelter"
	MatchStatusBoth    MatchStatus = "both"
)

// IsValid reports whether s is one of the four known statuses.
func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusPending, MatchStatusDonor, MatchStatusShelter, MatchStatusBoth:
		return true
	}
	return false
}

// Match pairs one donation with one request. Name and item fields are copied
// from the parties at creation time so a later profile edit does not rewrite
// a historical match record.
type Match struct {
	ID            string      `dynamodbav:"id" json:"id"`                         // ✅ Partition Key
	DonorID       string      `dynamodbav:"donor_id" json:"donor_id"`             // Donor UID
	DonorUsername string      `dynamodbav:"donor_username" json:"donor_username"` // Donor display name at match time
	ShelterID     string      `dynamodbav:"shelter_id" json:"shelter_id"`         // Shelter UID
	ShelterName   string      `dynamodbav:"shelter_name" json:"shelter_name"`     // Shelter name at match time
	ItemName      string      `dynamodbav:"item_name" json:"item_name"`           // Matched item name
	Quantity      int         `dynamodbav:"quantity" json:"quantity"`             // Requested quantity
	Category      string      `dynamodbav:"category" json:"category"`             // Item category
	DonationID    string      `dynamodbav:"donation_id" json:"donation_id"`       // Donation this match was built from
	RequestID     string      `dynamodbav:"request_id" json:"request_id"`         // Request this match was built from
	MatchedAt     string      `dynamodbav:"matched_at" json:"matched_at"`         // Timestamp of creation
	Status        MatchStatus `dynamodbav:"status" json:"status"`                 // Confirmation status
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"
