package models

// Fulfillment classification for a candidate. Informational only; it never
// gates whether a match can be created.
const (
	FulfillFull    = "full"
	FulfillPartial = "partial"
)

// MatchCandidate is a similarity hit between a donation and a request,
// joined with both owners' contact details. It is the unit handed to
// MatchService.SaveMatches.
type MatchCandidate struct {
	DonationID   string  `json:"donation_id"`
	DonorID      string  `json:"donor_id"`
	DonorName    string  `json:"donor_name,omitempty"`
	DonorEmail   string  `json:"donor_email,omitempty"`
	DonorPhone   string  `json:"donor_phone,omitempty"`
	RequestID    string  `json:"request_id"`
	ShelterID    string  `json:"shelter_id"`
	ShelterName  string  `json:"shelter_name,omitempty"`
	ShelterEmail string  `json:"shelter_email,omitempty"`
	ShelterPhone string  `json:"shelter_phone,omitempty"`
	ItemName     string  `json:"item_name"`
	Quantity     int     `json:"quantity"`
	Category     string  `json:"category"`
	CreatedAt    string  `json:"created_at,omitempty"`
	Similarity   float64 `json:"similarity_score"`
	DonationHas  int     `json:"donation_has"`  // Units the donor is offering
	ShelterNeeds int     `json:"shelter_needs"` // Units the shelter needs
	CanFulfill   string  `json:"can_fulfill"`   // "full" or "partial"
}
