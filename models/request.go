package models

// Request is an item need submitted by a shelter. It mirrors Donation with
// the owner on the shelter side.
type Request struct {
	ID        string    `dynamodbav:"id" json:"id"`                                     // ✅ Partition Key
	ShelterID string    `dynamodbav:"shelter_id" json:"shelter_id"`                     // Owning shelter UID
	ItemName  string    `dynamodbav:"item_name" json:"item_name"`                       // Name of the requested item
	Quantity  int       `dynamodbav:"quantity" json:"quantity"`                         // Number of units needed
	Category  string    `dynamodbav:"category" json:"category"`                         // Item category (e.g. "Food")
	Embedding []float64 `dynamodbav:"embedding,omitempty" json:"-"`                     // Semantic embedding vector
	CreatedAt string    `dynamodbav:"created_at,omitempty" json:"created_at,omitempty"` // Timestamp of submission
}

// RequestsTable is the DynamoDB table name for shelter requests
const RequestsTable = "Requests"
