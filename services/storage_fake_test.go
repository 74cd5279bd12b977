package services

import (
	"context"
	"sync"

	"shelterlink_server/models"
)

// fakeStore is an in-memory Storage used by the service tests. List order is
// insertion order, which the ranking tests rely on for tie-breaking. All
// methods are safe for concurrent use because match notification runs in a
// background goroutine.
type fakeStore struct {
	mu sync.Mutex

	donors    map[string]models.Donor
	shelters  map[string]models.Shelter
	donations map[string]models.Donation
	requests  map[string]models.Request
	matches   map[string]models.Match

	donationOrder []string
	requestOrder  []string
	shelterOrder  []string
	matchOrder    []string

	// failOn injects errors per operation, keyed "Op" or "Op:id".
	failOn map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		donors:    map[string]models.Donor{},
		shelters:  map[string]models.Shelter{},
		donations: map[string]models.Donation{},
		requests:  map[string]models.Request{},
		matches:   map[string]models.Match{},
		failOn:    map[string]error{},
	}
}

func (f *fakeStore) fail(op, id string) error {
	if err, ok := f.failOn[op+":"+id]; ok {
		return err
	}
	if err, ok := f.failOn[op]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) GetDonor(ctx context.Context, uid string) (*models.Donor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetDonor", uid); err != nil {
		return nil, err
	}
	donor, ok := f.donors[uid]
	if !ok {
		return nil, nil
	}
	return &donor, nil
}

func (f *fakeStore) PutDonor(ctx context.Context, donor *models.Donor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PutDonor", donor.UID); err != nil {
		return err
	}
	f.donors[donor.UID] = *donor
	return nil
}

func (f *fakeStore) DeleteDonor(ctx context.Context, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteDonor", uid); err != nil {
		return false, err
	}
	_, ok := f.donors[uid]
	delete(f.donors, uid)
	return ok, nil
}

func (f *fakeStore) GetShelter(ctx context.Context, uid string) (*models.Shelter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetShelter", uid); err != nil {
		return nil, err
	}
	shelter, ok := f.shelters[uid]
	if !ok {
		return nil, nil
	}
	return &shelter, nil
}

func (f *fakeStore) PutShelter(ctx context.Context, shelter *models.Shelter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PutShelter", shelter.UID); err != nil {
		return err
	}
	if _, ok := f.shelters[shelter.UID]; !ok {
		f.shelterOrder = append(f.shelterOrder, shelter.UID)
	}
	f.shelters[shelter.UID] = *shelter
	return nil
}

func (f *fakeStore) DeleteShelter(ctx context.Context, uid string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteShelter", uid); err != nil {
		return false, err
	}
	_, ok := f.shelters[uid]
	delete(f.shelters, uid)
	f.shelterOrder = removeFromOrder(f.shelterOrder, uid)
	return ok, nil
}

func (f *fakeStore) ListShelters(ctx context.Context) ([]models.Shelter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListShelters", ""); err != nil {
		return nil, err
	}
	out := make([]models.Shelter, 0, len(f.shelterOrder))
	for _, uid := range f.shelterOrder {
		out = append(out, f.shelters[uid])
	}
	return out, nil
}

func (f *fakeStore) GetDonation(ctx context.Context, id string) (*models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetDonation", id); err != nil {
		return nil, err
	}
	donation, ok := f.donations[id]
	if !ok {
		return nil, nil
	}
	return &donation, nil
}

func (f *fakeStore) PutDonation(ctx context.Context, donation *models.Donation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PutDonation", donation.ID); err != nil {
		return err
	}
	if _, ok := f.donations[donation.ID]; !ok {
		f.donationOrder = append(f.donationOrder, donation.ID)
	}
	f.donations[donation.ID] = *donation
	return nil
}

func (f *fakeStore) DeleteDonation(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteDonation", id); err != nil {
		return false, err
	}
	_, ok := f.donations[id]
	delete(f.donations, id)
	f.donationOrder = removeFromOrder(f.donationOrder, id)
	return ok, nil
}

func (f *fakeStore) ListDonations(ctx context.Context) ([]models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListDonations", ""); err != nil {
		return nil, err
	}
	out := make([]models.Donation, 0, len(f.donationOrder))
	for _, id := range f.donationOrder {
		out = append(out, f.donations[id])
	}
	return out, nil
}

func (f *fakeStore) ListDonationsByDonor(ctx context.Context, donorID string) ([]models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListDonationsByDonor", donorID); err != nil {
		return nil, err
	}
	var out []models.Donation
	for _, id := range f.donationOrder {
		if f.donations[id].DonorID == donorID {
			out = append(out, f.donations[id])
		}
	}
	return out, nil
}

func (f *fakeStore) GetRequest(ctx context.Context, id string) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetRequest", id); err != nil {
		return nil, err
	}
	request, ok := f.requests[id]
	if !ok {
		return nil, nil
	}
	return &request, nil
}

func (f *fakeStore) PutRequest(ctx context.Context, request *models.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PutRequest", request.ID); err != nil {
		return err
	}
	if _, ok := f.requests[request.ID]; !ok {
		f.requestOrder = append(f.requestOrder, request.ID)
	}
	f.requests[request.ID] = *request
	return nil
}

func (f *fakeStore) DeleteRequest(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteRequest", id); err != nil {
		return false, err
	}
	_, ok := f.requests[id]
	delete(f.requests, id)
	f.requestOrder = removeFromOrder(f.requestOrder, id)
	return ok, nil
}

func (f *fakeStore) ListRequests(ctx context.Context) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListRequests", ""); err != nil {
		return nil, err
	}
	out := make([]models.Request, 0, len(f.requestOrder))
	for _, id := range f.requestOrder {
		out = append(out, f.requests[id])
	}
	return out, nil
}

func (f *fakeStore) ListRequestsByShelter(ctx context.Context, shelterID string) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListRequestsByShelter", shelterID); err != nil {
		return nil, err
	}
	var out []models.Request
	for _, id := range f.requestOrder {
		if f.requests[id].ShelterID == shelterID {
			out = append(out, f.requests[id])
		}
	}
	return out, nil
}

func (f *fakeStore) GetMatch(ctx context.Context, id string) (*models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("GetMatch", id); err != nil {
		return nil, err
	}
	match, ok := f.matches[id]
	if !ok {
		return nil, nil
	}
	return &match, nil
}

func (f *fakeStore) PutMatch(ctx context.Context, match *models.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("PutMatch", match.ID); err != nil {
		return err
	}
	if _, ok := f.matches[match.ID]; !ok {
		f.matchOrder = append(f.matchOrder, match.ID)
	}
	f.matches[match.ID] = *match
	return nil
}

func (f *fakeStore) SetMatchStatus(ctx context.Context, id string, status models.MatchStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("SetMatchStatus", id); err != nil {
		return err
	}
	match, ok := f.matches[id]
	if !ok {
		return nil
	}
	match.Status = status
	f.matches[id] = match
	return nil
}

func (f *fakeStore) DeleteMatch(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("DeleteMatch", id); err != nil {
		return false, err
	}
	_, ok := f.matches[id]
	delete(f.matches, id)
	f.matchOrder = removeFromOrder(f.matchOrder, id)
	return ok, nil
}

func (f *fakeStore) ListMatches(ctx context.Context) ([]models.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("ListMatches", ""); err != nil {
		return nil, err
	}
	out := make([]models.Match, 0, len(f.matchOrder))
	for _, id := range f.matchOrder {
		out = append(out, f.matches[id])
	}
	return out, nil
}

func (f *fakeStore) AppendID(ctx context.Context, tableName, uid, attribute, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("AppendID", uid); err != nil {
		return err
	}
	switch tableName {
	case models.DonorsTable:
		donor := f.donors[uid]
		donor.UID = uid
		switch attribute {
		case models.DonorDonationIDsAttr:
			donor.DonationIDs = append(donor.DonationIDs, id)
		case models.DonorMatchIDsAttr:
			donor.MatchIDs = append(donor.MatchIDs, id)
		}
		f.donors[uid] = donor
	case models.SheltersTable:
		shelter, existed := f.shelters[uid]
		shelter.UID = uid
		switch attribute {
		case models.ShelterRequestIDsAttr:
			shelter.RequestIDs = append(shelter.RequestIDs, id)
		case models.ShelterMatchIDsAttr:
			shelter.MatchIDs = append(shelter.MatchIDs, id)
		}
		if !existed {
			f.shelterOrder = append(f.shelterOrder, uid)
		}
		f.shelters[uid] = shelter
	}
	return nil
}

func (f *fakeStore) RemoveID(ctx context.Context, tableName, uid, attribute, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("RemoveID", uid); err != nil {
		return err
	}
	switch tableName {
	case models.DonorsTable:
		donor, ok := f.donors[uid]
		if !ok {
			return nil
		}
		switch attribute {
		case models.DonorDonationIDsAttr:
			donor.DonationIDs = removeFromOrder(donor.DonationIDs, id)
		case models.DonorMatchIDsAttr:
			donor.MatchIDs = removeFromOrder(donor.MatchIDs, id)
		}
		f.donors[uid] = donor
	case models.SheltersTable:
		shelter, ok := f.shelters[uid]
		if !ok {
			return nil
		}
		switch attribute {
		case models.ShelterRequestIDsAttr:
			shelter.RequestIDs = removeFromOrder(shelter.RequestIDs, id)
		case models.ShelterMatchIDsAttr:
			shelter.MatchIDs = removeFromOrder(shelter.MatchIDs, id)
		}
		f.shelters[uid] = shelter
	}
	return nil
}

func removeFromOrder(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// fakeEmbedder returns a fixed vector, or a fixed error.
type fakeEmbedder struct {
	vec   []float64
	err   error
	calls int
}

func (f *fakeEmbedder) EmbedItem(ctx context.Context, category, itemName string, quantity int) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

// fakeNotifier records notification fan-out. Notifications are dispatched in
// a background goroutine, so tests receive from the channel with a timeout.
type fakeNotifier struct {
	sent chan notifiedMatch
}

type notifiedMatch struct {
	DonorEmail   string
	ShelterEmail string
	Match        models.Match
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan notifiedMatch, 16)}
}

func (f *fakeNotifier) SendMatchEmails(donorEmail, shelterEmail string, match *models.Match, donorPhone, shelterPhone string) {
	f.sent <- notifiedMatch{DonorEmail: donorEmail, ShelterEmail: shelterEmail, Match: *match}
}
