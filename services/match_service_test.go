package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shelterlink_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMatchParties(store *fakeStore) {
	store.donors["donor-1"] = models.Donor{
		UID:      "donor-1",
		Username: "alice",
		Email:    "alice@example.com",
	}
	store.shelters["shelter-1"] = models.Shelter{
		UID:         "shelter-1",
		ShelterName: "Haven",
		Email:       "haven@example.com",
	}
	store.shelterOrder = append(store.shelterOrder, "shelter-1")
}

func sampleCandidate() models.MatchCandidate {
	return models.MatchCandidate{
		DonationID:  "don-1",
		DonorID:     "donor-1",
		DonorName:   "alice",
		RequestID:   "req-1",
		ShelterID:   "shelter-1",
		ShelterName: "Haven",
		ItemName:    "Blankets",
		Quantity:    5,
		Category:    "Bedding",
		Similarity:  0.91,
	}
}

func TestResolveMatchStatus(t *testing.T) {
	tests := []struct {
		current   models.MatchStatus
		asDonor   bool
		want      models.MatchStatus
	}{
		{models.MatchStatusPending, true, models.MatchStatusDonor},
		{models.MatchStatusPending, false, models.MatchStatusShelter},
		{models.MatchStatusDonor, true, models.MatchStatusDonor},
		{models.MatchStatusDonor, false, models.MatchStatusBoth},
		{models.MatchStatusShelter, true, models.MatchStatusBoth},
		{models.MatchStatusShelter, false, models.MatchStatusShelter},
		{models.MatchStatusBoth, true, models.MatchStatusBoth},
		{models.MatchStatusBoth, false, models.MatchStatusBoth},
	}

	for _, tc := range tests {
		got := ResolveMatchStatus(tc.current, tc.asDonor)
		assert.Equal(t, tc.want, got, "current=%s asDonor=%v", tc.current, tc.asDonor)
		assert.True(t, got.IsValid())
	}
}

func TestSaveMatches_PersistsAndLinksBothParties(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	ms := &MatchService{Store: store}

	result, err := ms.SaveMatches(context.Background(), []models.MatchCandidate{sampleCandidate()})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Empty(t, result.Failed)
	require.Len(t, result.Matches, 1)

	match := result.Matches[0]
	assert.NotEmpty(t, match.ID)
	assert.Equal(t, models.MatchStatusPending, match.Status)
	assert.Equal(t, "don-1", match.DonationID)
	assert.Equal(t, "req-1", match.RequestID)
	assert.NotEmpty(t, match.MatchedAt)

	stored, err := store.GetMatch(context.Background(), match.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	donor, _ := store.GetDonor(context.Background(), "donor-1")
	shelter, _ := store.GetShelter(context.Background(), "shelter-1")
	assert.Contains(t, donor.MatchIDs, match.ID)
	assert.Contains(t, shelter.MatchIDs, match.ID)
}

func TestSaveMatches_UnknownNameFallback(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	ms := &MatchService{Store: store}

	candidate := sampleCandidate()
	candidate.DonorName = ""
	candidate.ShelterName = ""

	result, err := ms.SaveMatches(context.Background(), []models.MatchCandidate{candidate})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Unknown", result.Matches[0].DonorUsername)
	assert.Equal(t, "Unknown", result.Matches[0].ShelterName)
}

func TestSaveMatches_PartialFailureKeepsSiblings(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	ms := &MatchService{Store: store}

	good := sampleCandidate()
	bad := sampleCandidate()
	bad.DonorID = "donor-broken"
	store.failOn["AppendID:donor-broken"] = errors.New("throughput exceeded")

	result, err := ms.SaveMatches(context.Background(), []models.MatchCandidate{bad, good})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, 0, result.Failed[0].Index)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "donor-1", result.Matches[0].DonorID)
}

func TestSaveMatches_NotifiesBothParties(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	notifier := newFakeNotifier()
	ms := &MatchService{Store: store, Notifier: notifier}

	result, err := ms.SaveMatches(context.Background(), []models.MatchCandidate{sampleCandidate()})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)

	select {
	case sent := <-notifier.sent:
		assert.Equal(t, "alice@example.com", sent.DonorEmail)
		assert.Equal(t, "haven@example.com", sent.ShelterEmail)
		assert.Equal(t, result.Matches[0].ID, sent.Match.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never dispatched")
	}
}

func TestConfirmMatch_Lifecycle(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	ms := &MatchService{Store: store}

	require.NoError(t, store.PutMatch(context.Background(), &models.Match{
		ID:        "match-1",
		DonorID:   "donor-1",
		ShelterID: "shelter-1",
		Status:    models.MatchStatusPending,
	}))

	status, err := ms.ConfirmMatch(context.Background(), "match-1", "donor-1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusDonor, status)

	// Re-confirming the same side changes nothing
	status, err = ms.ConfirmMatch(context.Background(), "match-1", "donor-1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusDonor, status)

	status, err = ms.ConfirmMatch(context.Background(), "match-1", "shelter-1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusBoth, status)

	// "both" is terminal
	status, err = ms.ConfirmMatch(context.Background(), "match-1", "donor-1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusBoth, status)

	stored, err := store.GetMatch(context.Background(), "match-1")
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusBoth, stored.Status)
}

func TestConfirmMatch_Errors(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	ms := &MatchService{Store: store}

	_, err := ms.ConfirmMatch(context.Background(), "missing", "donor-1")
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.PutMatch(context.Background(), &models.Match{
		ID:        "match-1",
		DonorID:   "donor-1",
		ShelterID: "shelter-1",
		Status:    models.MatchStatusPending,
	}))

	_, err = ms.ConfirmMatch(context.Background(), "match-1", "stranger")
	assert.True(t, errors.Is(err, ErrPermissionDenied))

	// The failed confirmation left the status untouched
	stored, _ := store.GetMatch(context.Background(), "match-1")
	assert.Equal(t, models.MatchStatusPending, stored.Status)
}

func TestDeleteMatch_PrunesBothBackReferences(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	ms := &MatchService{Store: store}

	result, err := ms.SaveMatches(context.Background(), []models.MatchCandidate{sampleCandidate()})
	require.NoError(t, err)
	matchID := result.Matches[0].ID

	require.NoError(t, ms.DeleteMatch(context.Background(), matchID))

	stored, err := store.GetMatch(context.Background(), matchID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	donor, _ := store.GetDonor(context.Background(), "donor-1")
	shelter, _ := store.GetShelter(context.Background(), "shelter-1")
	assert.NotContains(t, donor.MatchIDs, matchID)
	assert.NotContains(t, shelter.MatchIDs, matchID)
}

func TestDeleteMatch_NotFound(t *testing.T) {
	store := newFakeStore()
	ms := &MatchService{Store: store}

	err := ms.DeleteMatch(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMatchesForUser(t *testing.T) {
	store := newFakeStore()
	seedMatchParties(store)
	ms := &MatchService{Store: store}

	result, err := ms.SaveMatches(context.Background(), []models.MatchCandidate{sampleCandidate()})
	require.NoError(t, err)
	matchID := result.Matches[0].ID

	// Both sides resolve the same match through their own array
	for _, uid := range []string{"donor-1", "shelter-1"} {
		matches, err := ms.MatchesForUser(context.Background(), uid)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, matchID, matches[0].ID)
	}

	// A dangling id is skipped, not an error
	donor := store.donors["donor-1"]
	donor.MatchIDs = append(donor.MatchIDs, "gone")
	store.donors["donor-1"] = donor
	matches, err := ms.MatchesForUser(context.Background(), "donor-1")
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	_, err = ms.MatchesForUser(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrNotFound))
}
