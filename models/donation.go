package models

// Donation is an item offering submitted by a donor. The embedding is
// generated from (item_name, category, quantity) when the donation is
// created or edited; an empty embedding means the item is not matchable yet.
type Donation struct {
	ID        string    `dynamodbav:"id" json:"id"`                                     // ✅ Partition Key
	DonorID   string    `dynamodbav:"donor_id" json:"donor_id"`                         // Owning donor UID
	ItemName  string    `dynamodbav:"item_name" json:"item_name"`                       // Name of the donated item
	Quantity  int       `dynamodbav:"quantity" json:"quantity"`                         // Number of units offered
	Category  string    `dynamodbav:"category" json:"category"`                         // Item category (e.g. "Food")
	Embedding []float64 `dynamodbav:"embedding,omitempty" json:"-"`                     // Semantic embedding vector
	CreatedAt string    `dynamodbav:"created_at,omitempty" json:"created_at,omitempty"` // Timestamp of submission
}

// DonationsTable is the DynamoDB table name for donations
const DonationsTable = "Donations"
