package models

// Shelter defines the structure for shelter accounts
type Shelter struct {
	UID           string   `dynamodbav:"uid" json:"uid"`                                               // ✅ Partition Key (Firebase UID)
	Username      string   `dynamodbav:"username,omitempty" json:"username,omitempty"`                 // Display name
	ShelterName   string   `dynamodbav:"shelter_name,omitempty" json:"shelter_name,omitempty"`         // Official shelter name
	Email         string   `dynamodbav:"email,omitempty" json:"email,omitempty"`                       // Contact email
	PhoneNumber   string   `dynamodbav:"phone_number,omitempty" json:"phone_number,omitempty"`         // Contact phone number
	StreetAddress string   `dynamodbav:"street_address,omitempty" json:"street_address,omitempty"`     // Street address
	City          string   `dynamodbav:"city,omitempty" json:"city,omitempty"`                         // City
	State         string   `dynamodbav:"state,omitempty" json:"state,omitempty"`                       // State
	ZipCode       string   `dynamodbav:"zip_code,omitempty" json:"zip_code,omitempty"`                 // ZIP code
	Latitude      float64  `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`                 // Latitude of the shelter's location
	Longitude     float64  `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`               // Longitude of the shelter's location
	RequestIDs    []string `dynamodbav:"request_ids,omitempty" json:"request_ids,omitempty"`           // IDs of requests owned by this shelter
	MatchIDs      []string `dynamodbav:"match_ids,omitempty" json:"match_ids,omitempty"`               // IDs of matches this shelter is part of
	CreatedAt     string   `dynamodbav:"created_at,omitempty" json:"created_at,omitempty"`             // Timestamp of registration
}

// SheltersTable is the DynamoDB table name for shelter accounts
const SheltersTable = "Shelters"

// Back-reference array column names on the Shelters table
const (
	ShelterRequestIDsAttr = "request_ids"
	ShelterMatchIDsAttr   = "match_ids"
)
