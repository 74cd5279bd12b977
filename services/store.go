package services

import (
	"context"
	"sync"

	"shelterlink_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Storage is the persistence contract consumed by the domain services:
// point lookups by id, inserts, deletes reporting whether a row existed,
// pool scans for similarity search, and append/remove on the back-reference
// array columns of the party tables. Lookups return (nil, nil) when the row
// does not exist. DynamoStore is the production implementation; tests use an
// in-memory fake.
type Storage interface {
	GetDonor(ctx context.Context, uid string) (*models.Donor, error)
	PutDonor(ctx context.Context, donor *models.Donor) error
	DeleteDonor(ctx context.Context, uid string) (bool, error)

	GetShelter(ctx context.Context, uid string) (*models.Shelter, error)
	PutShelter(ctx context.Context, shelter *models.Shelter) error
	DeleteShelter(ctx context.Context, uid string) (bool, error)
	ListShelters(ctx context.Context) ([]models.Shelter, error)

	GetDonation(ctx context.Context, id string) (*models.Donation, error)
	PutDonation(ctx context.Context, donation *models.Donation) error
	DeleteDonation(ctx context.Context, id string) (bool, error)
	ListDonations(ctx context.Context) ([]models.Donation, error)
	ListDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error)

	GetRequest(ctx context.Context, id string) (*models.Request, error)
	PutRequest(ctx context.Context, request *models.Request) error
	DeleteRequest(ctx context.Context, id string) (bool, error)
	ListRequests(ctx context.Context) ([]models.Request, error)
	ListRequestsByShelter(ctx context.Context, shelterID string) ([]models.Request, error)

	GetMatch(ctx context.Context, id string) (*models.Match, error)
	PutMatch(ctx context.Context, match *models.Match) error
	SetMatchStatus(ctx context.Context, id string, status models.MatchStatus) error
	DeleteMatch(ctx context.Context, id string) (bool, error)
	ListMatches(ctx context.Context) ([]models.Match, error)

	// AppendID / RemoveID mutate a back-reference array column
	// (donation_ids, request_ids, match_ids) on a party table.
	AppendID(ctx context.Context, tableName, uid, attribute, id string) error
	RemoveID(ctx context.Context, tableName, uid, attribute, id string) error
}

// DynamoStore implements Storage on top of DynamoService.
type DynamoStore struct {
	Dynamo *DynamoService

	// Serializes the read-index-REMOVE sequence of RemoveID per owner so
	// two concurrent removals cannot both resolve the same index.
	ownerLocks keyedMutex
}

func NewDynamoStore(dynamo *DynamoService) *DynamoStore {
	return &DynamoStore{Dynamo: dynamo}
}

func (s *DynamoStore) GetDonor(ctx context.Context, uid string) (*models.Donor, error) {
	var donor models.Donor
	found, err := s.getInto(ctx, models.DonorsTable, "uid", uid, &donor)
	if err != nil || !found {
		return nil, err
	}
	return &donor, nil
}

func (s *DynamoStore) PutDonor(ctx context.Context, donor *models.Donor) error {
	return s.Dynamo.PutItem(ctx, models.DonorsTable, donor)
}

func (s *DynamoStore) DeleteDonor(ctx context.Context, uid string) (bool, error) {
	return s.Dynamo.DeleteItem(ctx, models.DonorsTable, StringKey("uid", uid))
}

func (s *DynamoStore) GetShelter(ctx context.Context, uid string) (*models.Shelter, error) {
	var shelter models.Shelter
	found, err := s.getInto(ctx, models.SheltersTable, "uid", uid, &shelter)
	if err != nil || !found {
		return nil, err
	}
	return &shelter, nil
}

func (s *DynamoStore) PutShelter(ctx context.Context, shelter *models.Shelter) error {
	return s.Dynamo.PutItem(ctx, models.SheltersTable, shelter)
}

func (s *DynamoStore) DeleteShelter(ctx context.Context, uid string) (bool, error) {
	return s.Dynamo.DeleteItem(ctx, models.SheltersTable, StringKey("uid", uid))
}

func (s *DynamoStore) ListShelters(ctx context.Context) ([]models.Shelter, error) {
	var shelters []models.Shelter
	if err := s.Dynamo.ScanAll(ctx, models.SheltersTable, &shelters); err != nil {
		return nil, err
	}
	return shelters, nil
}

func (s *DynamoStore) GetDonation(ctx context.Context, id string) (*models.Donation, error) {
	var donation models.Donation
	found, err := s.getInto(ctx, models.DonationsTable, "id", id, &donation)
	if err != nil || !found {
		return nil, err
	}
	return &donation, nil
}

func (s *DynamoStore) PutDonation(ctx context.Context, donation *models.Donation) error {
	return s.Dynamo.PutItem(ctx, models.DonationsTable, donation)
}

func (s *DynamoStore) DeleteDonation(ctx context.Context, id string) (bool, error) {
	return s.Dynamo.DeleteItem(ctx, models.DonationsTable, StringKey("id", id))
}

func (s *DynamoStore) ListDonations(ctx context.Context) ([]models.Donation, error) {
	var donations []models.Donation
	if err := s.Dynamo.ScanAll(ctx, models.DonationsTable, &donations); err != nil {
		return nil, err
	}
	return donations, nil
}

func (s *DynamoStore) ListDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error) {
	var donations []models.Donation
	err := s.Dynamo.ScanWithValues(ctx, models.DonationsTable, "donor_id = :uid",
		map[string]types.AttributeValue{":uid": &types.AttributeValueMemberS{Value: donorID}},
		&donations)
	if err != nil {
		return nil, err
	}
	return donations, nil
}

func (s *DynamoStore) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	var request models.Request
	found, err := s.getInto(ctx, models.RequestsTable, "id", id, &request)
	if err != nil || !found {
		return nil, err
	}
	return &request, nil
}

func (s *DynamoStore) PutRequest(ctx context.Context, request *models.Request) error {
	return s.Dynamo.PutItem(ctx, models.RequestsTable, request)
}

func (s *DynamoStore) DeleteRequest(ctx context.Context, id string) (bool, error) {
	return s.Dynamo.DeleteItem(ctx, models.RequestsTable, StringKey("id", id))
}

func (s *DynamoStore) ListRequests(ctx context.Context) ([]models.Request, error) {
	var requests []models.Request
	if err := s.Dynamo.ScanAll(ctx, models.RequestsTable, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *DynamoStore) ListRequestsByShelter(ctx context.Context, shelterID string) ([]models.Request, error) {
	var requests []models.Request
	err := s.Dynamo.ScanWithValues(ctx, models.RequestsTable, "shelter_id = :uid",
		map[string]types.AttributeValue{":uid": &types.AttributeValueMemberS{Value: shelterID}},
		&requests)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *DynamoStore) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	var match models.Match
	found, err := s.getInto(ctx, models.MatchesTable, "id", id, &match)
	if err != nil || !found {
		return nil, err
	}
	return &match, nil
}

func (s *DynamoStore) PutMatch(ctx context.Context, match *models.Match) error {
	return s.Dynamo.PutItem(ctx, models.MatchesTable, match)
}

func (s *DynamoStore) SetMatchStatus(ctx context.Context, id string, status models.MatchStatus) error {
	_, err := s.Dynamo.UpdateItem(ctx, models.MatchesTable, "SET #status = :status",
		StringKey("id", id),
		map[string]types.AttributeValue{":status": &types.AttributeValueMemberS{Value: string(status)}},
		map[string]string{"#status": "status"},
	)
	return err
}

func (s *DynamoStore) DeleteMatch(ctx context.Context, id string) (bool, error) {
	return s.Dynamo.DeleteItem(ctx, models.MatchesTable, StringKey("id", id))
}

func (s *DynamoStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	var matches []models.Match
	if err := s.Dynamo.ScanAll(ctx, models.MatchesTable, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (s *DynamoStore) AppendID(ctx context.Context, tableName, uid, attribute, id string) error {
	return s.Dynamo.AppendToStringList(ctx, tableName, StringKey("uid", uid), attribute, id)
}

func (s *DynamoStore) RemoveID(ctx context.Context, tableName, uid, attribute, id string) error {
	unlock := s.ownerLocks.lock(tableName + "/" + uid)
	defer unlock()
	return s.Dynamo.RemoveFromStringList(ctx, tableName, StringKey("uid", uid), attribute, id)
}

// getInto fetches a single row by string key and unmarshals it into out.
// Returns false when the row does not exist.
func (s *DynamoStore) getInto(ctx context.Context, tableName, keyName, keyValue string, out interface{}) (bool, error) {
	item, err := s.Dynamo.GetItem(ctx, tableName, StringKey(keyName, keyValue))
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, nil
	}
	if err := unmarshalItem(item, out); err != nil {
		return false, err
	}
	return true, nil
}

func unmarshalItem(item map[string]types.AttributeValue, out interface{}) error {
	return attributevalue.UnmarshalMap(item, out)
}

// keyedMutex hands out one mutex per key, lazily.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (km *keyedMutex) lock(key string) func() {
	km.mu.Lock()
	if km.locks == nil {
		km.locks = make(map[string]*sync.Mutex)
	}
	l, ok := km.locks[key]
	if !ok {
		l = &sync.Mutex{}
		km.locks[key] = l
	}
	km.mu.Unlock()

	l.Lock()
	return l.Unlock
}
