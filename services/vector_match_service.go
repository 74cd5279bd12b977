package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"shelterlink_server/models"
)

// VectorMatchService ranks donations against shelter requests by cosine
// similarity of their embeddings and joins each hit with the counterpart
// owner's contact details.
type VectorMatchService struct {
	Store Storage
}

// FindSimilarRequests finds shelter requests similar to a donation, ordered
// by similarity (highest first). A donation without an embedding yields no
// matches rather than an error.
func (vs *VectorMatchService) FindSimilarRequests(ctx context.Context, donationID string, limit int, threshold float64) ([]models.MatchCandidate, error) {
	if err := ValidateMatchParams(threshold, limit); err != nil {
		return nil, err
	}

	donation, err := vs.Store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donation %s: %w", donationID, err)
	}
	if donation == nil {
		return nil, fmt.Errorf("%w: donation %s", ErrNotFound, donationID)
	}
	if len(donation.Embedding) == 0 {
		log.Printf("Donation %s has no embedding, skipping similarity search", donationID)
		return []models.MatchCandidate{}, nil
	}

	requests, err := vs.Store.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request pool: %w", err)
	}

	pool := make([][]float64, len(requests))
	for i := range requests {
		pool[i] = requests[i].Embedding
	}
	hits, err := RankBySimilarity(donation.Embedding, pool, threshold, limit)
	if err != nil {
		return nil, err
	}

	donor, err := vs.Store.GetDonor(ctx, donation.DonorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor %s: %w", donation.DonorID, err)
	}

	shelters := map[string]*models.Shelter{}
	candidates := make([]models.MatchCandidate, 0, len(hits))
	for _, hit := range hits {
		request := requests[hit.Index]
		shelter, err := vs.lookupShelter(ctx, shelters, request.ShelterID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, buildCandidate(donation, &request, donor, shelter, hit.Similarity))
	}
	return candidates, nil
}

// FindSimilarDonations finds donations similar to a shelter request, ordered
// by similarity (highest first).
func (vs *VectorMatchService) FindSimilarDonations(ctx context.Context, requestID string, limit int, threshold float64) ([]models.MatchCandidate, error) {
	if err := ValidateMatchParams(threshold, limit); err != nil {
		return nil, err
	}

	request, err := vs.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request %s: %w", requestID, err)
	}
	if request == nil {
		return nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	if len(request.Embedding) == 0 {
		log.Printf("Request %s has no embedding, skipping similarity search", requestID)
		return []models.MatchCandidate{}, nil
	}

	donations, err := vs.Store.ListDonations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donation pool: %w", err)
	}

	pool := make([][]float64, len(donations))
	for i := range donations {
		pool[i] = donations[i].Embedding
	}
	hits, err := RankBySimilarity(request.Embedding, pool, threshold, limit)
	if err != nil {
		return nil, err
	}

	shelter, err := vs.Store.GetShelter(ctx, request.ShelterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shelter %s: %w", request.ShelterID, err)
	}

	donors := map[string]*models.Donor{}
	candidates := make([]models.MatchCandidate, 0, len(hits))
	for _, hit := range hits {
		donation := donations[hit.Index]
		donor, err := vs.lookupDonor(ctx, donors, donation.DonorID)
		if err != nil {
			return nil, err
		}
		// In this direction the offered item is the interesting one, so the
		// candidate carries the donation's item fields.
		candidate := buildCandidate(&donation, request, donor, shelter, hit.Similarity)
		candidate.ItemName = donation.ItemName
		candidate.Quantity = donation.Quantity
		candidate.Category = donation.Category
		candidate.CreatedAt = donation.CreatedAt
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// FindAllMatches computes the full cross product of donations and requests
// above threshold. With minQuantityMatch set, only pairs where the donation
// covers the requested quantity are kept.
func (vs *VectorMatchService) FindAllMatches(ctx context.Context, threshold float64, minQuantityMatch bool) ([]models.MatchCandidate, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}

	donations, err := vs.Store.ListDonations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donation pool: %w", err)
	}
	requests, err := vs.Store.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request pool: %w", err)
	}

	donors := map[string]*models.Donor{}
	shelters := map[string]*models.Shelter{}
	var candidates []models.MatchCandidate

	for i := range donations {
		donation := &donations[i]
		if len(donation.Embedding) == 0 {
			continue
		}
		for j := range requests {
			request := &requests[j]
			if len(request.Embedding) == 0 {
				continue
			}
			similarity := CosineSimilarity(donation.Embedding, request.Embedding)
			if similarity <= threshold {
				continue
			}
			if minQuantityMatch && donation.Quantity < request.Quantity {
				continue
			}
			donor, err := vs.lookupDonor(ctx, donors, donation.DonorID)
			if err != nil {
				return nil, err
			}
			shelter, err := vs.lookupShelter(ctx, shelters, request.ShelterID)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, buildCandidate(donation, request, donor, shelter, similarity))
		}
	}

	sortCandidatesBySimilarity(candidates)
	return candidates, nil
}

// BestMatchForDonation returns the single best request for a donation, or
// nil when nothing clears BestMatchThreshold. Absence is not an error.
func (vs *VectorMatchService) BestMatchForDonation(ctx context.Context, donationID string) (*models.MatchCandidate, error) {
	matches, err := vs.FindSimilarRequests(ctx, donationID, 1, BestMatchThreshold)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// BestMatchForRequest returns the single best donation for a request, or nil
// when nothing clears BestMatchThreshold.
func (vs *VectorMatchService) BestMatchForRequest(ctx context.Context, requestID string) (*models.MatchCandidate, error) {
	matches, err := vs.FindSimilarDonations(ctx, requestID, 1, BestMatchThreshold)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// MatchesForDonor finds requests matching any of the donor's donations,
// sorted by similarity across all of them.
func (vs *VectorMatchService) MatchesForDonor(ctx context.Context, donorID string, limit int, threshold float64) ([]models.MatchCandidate, error) {
	if err := ValidateMatchParams(threshold, limit); err != nil {
		return nil, err
	}

	donations, err := vs.Store.ListDonationsByDonor(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donations for donor %s: %w", donorID, err)
	}

	var all []models.MatchCandidate
	for _, donation := range donations {
		matches, err := vs.FindSimilarRequests(ctx, donation.ID, limit, threshold)
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}
	sortCandidatesBySimilarity(all)
	return all, nil
}

// MatchesForShelter finds donations matching any of the shelter's requests,
// sorted by similarity across all of them.
func (vs *VectorMatchService) MatchesForShelter(ctx context.Context, shelterID string, limit int, threshold float64) ([]models.MatchCandidate, error) {
	if err := ValidateMatchParams(threshold, limit); err != nil {
		return nil, err
	}

	requests, err := vs.Store.ListRequestsByShelter(ctx, shelterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests for shelter %s: %w", shelterID, err)
	}

	var all []models.MatchCandidate
	for _, request := range requests {
		matches, err := vs.FindSimilarDonations(ctx, request.ID, limit, threshold)
		if err != nil {
			return nil, err
		}
		all = append(all, matches...)
	}
	sortCandidatesBySimilarity(all)
	return all, nil
}

func (vs *VectorMatchService) lookupDonor(ctx context.Context, cache map[string]*models.Donor, uid string) (*models.Donor, error) {
	if donor, ok := cache[uid]; ok {
		return donor, nil
	}
	donor, err := vs.Store.GetDonor(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor %s: %w", uid, err)
	}
	cache[uid] = donor
	return donor, nil
}

func (vs *VectorMatchService) lookupShelter(ctx context.Context, cache map[string]*models.Shelter, uid string) (*models.Shelter, error) {
	if shelter, ok := cache[uid]; ok {
		return shelter, nil
	}
	shelter, err := vs.Store.GetShelter(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shelter %s: %w", uid, err)
	}
	cache[uid] = shelter
	return shelter, nil
}

// buildCandidate joins a similarity hit with both owners' contact details
// and classifies fulfillment. The owners may be nil (already deleted); the
// contact fields are then simply left blank, mirroring an outer join.
func buildCandidate(donation *models.Donation, request *models.Request, donor *models.Donor, shelter *models.Shelter, similarity float64) models.MatchCandidate {
	candidate := models.MatchCandidate{
		DonationID:   donation.ID,
		DonorID:      donation.DonorID,
		RequestID:    request.ID,
		ShelterID:    request.ShelterID,
		ItemName:     request.ItemName,
		Quantity:     request.Quantity,
		Category:     request.Category,
		CreatedAt:    request.CreatedAt,
		Similarity:   math.Round(similarity*10000) / 10000,
		DonationHas:  donation.Quantity,
		ShelterNeeds: request.Quantity,
		CanFulfill:   models.FulfillPartial,
	}
	if donation.Quantity >= request.Quantity {
		candidate.CanFulfill = models.FulfillFull
	}
	if donor != nil {
		candidate.DonorName = donor.Username
		candidate.DonorEmail = donor.Email
		candidate.DonorPhone = donor.PhoneNumber
	}
	if shelter != nil {
		candidate.ShelterName = shelter.ShelterName
		candidate.ShelterEmail = shelter.Email
		candidate.ShelterPhone = shelter.PhoneNumber
	}
	return candidate
}

func sortCandidatesBySimilarity(candidates []models.MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
}
