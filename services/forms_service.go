package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"shelterlink_server/models"

	"github.com/google/uuid"
)

// FormsService owns the donation and request lifecycle: creation with
// embedding generation, edits that invalidate stale matches, and deletions
// that keep matches and back-reference arrays consistent.
type FormsService struct {
	Store    Storage
	Embedder Embedder
	Matches  *MatchService
	Vector   *VectorMatchService
}

// DonationInput carries the caller-supplied fields of a donation form.
type DonationInput struct {
	DonorID  string `json:"donor_id"`
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
	Category string `json:"category"`
}

// RequestInput carries the caller-supplied fields of a request form.
type RequestInput struct {
	ShelterID string `json:"shelter_id"`
	ItemName  string `json:"item_name"`
	Quantity  int    `json:"quantity"`
	Category  string `json:"category"`
}

func (in DonationInput) validate() error {
	if in.DonorID == "" {
		return fmt.Errorf("%w: donor_id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(in.ItemName) == "" {
		return fmt.Errorf("%w: item_name is required", ErrInvalidArgument)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	return nil
}

func (in RequestInput) validate() error {
	if in.ShelterID == "" {
		return fmt.Errorf("%w: shelter_id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(in.ItemName) == "" {
		return fmt.Errorf("%w: item_name is required", ErrInvalidArgument)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	return nil
}

// CreateDonation embeds and stores a new donation and links it to its donor.
// An embedding failure aborts the write; the record would not be matchable.
func (fs *FormsService) CreateDonation(ctx context.Context, input DonationInput) (*models.Donation, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	donor, err := fs.Store.GetDonor(ctx, input.DonorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor %s: %w", input.DonorID, err)
	}
	if donor == nil {
		return nil, fmt.Errorf("%w: donor %s", ErrNotFound, input.DonorID)
	}

	embedding, err := fs.Embedder.EmbedItem(ctx, input.Category, input.ItemName, input.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	donation := &models.Donation{
		ID:        uuid.NewString(),
		DonorID:   input.DonorID,
		ItemName:  input.ItemName,
		Quantity:  input.Quantity,
		Category:  input.Category,
		Embedding: embedding,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := fs.Store.PutDonation(ctx, donation); err != nil {
		return nil, fmt.Errorf("failed to store donation: %w", err)
	}
	if err := fs.Store.AppendID(ctx, models.DonorsTable, input.DonorID, models.DonorDonationIDsAttr, donation.ID); err != nil {
		return nil, fmt.Errorf("failed to update donor donation_ids: %w", err)
	}
	return donation, nil
}

// CreateRequest embeds and stores a new shelter request and links it to its
// shelter.
func (fs *FormsService) CreateRequest(ctx context.Context, input RequestInput) (*models.Request, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	shelter, err := fs.Store.GetShelter(ctx, input.ShelterID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shelter %s: %w", input.ShelterID, err)
	}
	if shelter == nil {
		return nil, fmt.Errorf("%w: shelter %s", ErrNotFound, input.ShelterID)
	}

	embedding, err := fs.Embedder.EmbedItem(ctx, input.Category, input.ItemName, input.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	request := &models.Request{
		ID:        uuid.NewString(),
		ShelterID: input.ShelterID,
		ItemName:  input.ItemName,
		Quantity:  input.Quantity,
		Category:  input.Category,
		Embedding: embedding,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := fs.Store.PutRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to store request: %w", err)
	}
	if err := fs.Store.AppendID(ctx, models.SheltersTable, input.ShelterID, models.ShelterRequestIDsAttr, request.ID); err != nil {
		return nil, fmt.Errorf("failed to update shelter request_ids: %w", err)
	}
	return request, nil
}

// UpdateDonation rewrites a donation with fresh fields and embedding. Any
// match built from the old embedding is deleted first, then a fresh
// best-match search runs against the new embedding.
func (fs *FormsService) UpdateDonation(ctx context.Context, donationID string, input DonationInput) (*models.Donation, *models.MatchCandidate, error) {
	if err := input.validate(); err != nil {
		return nil, nil, err
	}

	existing, err := fs.Store.GetDonation(ctx, donationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch donation %s: %w", donationID, err)
	}
	if existing == nil {
		return nil, nil, fmt.Errorf("%w: donation %s", ErrNotFound, donationID)
	}
	if existing.DonorID != input.DonorID {
		return nil, nil, fmt.Errorf("%w: donation %s is not owned by donor %s", ErrPermissionDenied, donationID, input.DonorID)
	}

	embedding, err := fs.Embedder.EmbedItem(ctx, input.Category, input.ItemName, input.Quantity)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	// The old embedding no longer describes the item, so a match built from
	// it is stale and has to go before the new search runs.
	if err := fs.deleteStaleDonationMatch(ctx, input.DonorID, donationID); err != nil {
		return nil, nil, err
	}

	updated := &models.Donation{
		ID:        donationID,
		DonorID:   existing.DonorID,
		ItemName:  input.ItemName,
		Quantity:  input.Quantity,
		Category:  input.Category,
		Embedding: embedding,
		CreatedAt: existing.CreatedAt,
	}
	if err := fs.Store.PutDonation(ctx, updated); err != nil {
		return nil, nil, fmt.Errorf("failed to store updated donation: %w", err)
	}

	best := fs.rematchDonation(ctx, donationID)
	return updated, best, nil
}

// UpdateRequest mirrors UpdateDonation for the shelter side.
func (fs *FormsService) UpdateRequest(ctx context.Context, requestID string, input RequestInput) (*models.Request, *models.MatchCandidate, error) {
	if err := input.validate(); err != nil {
		return nil, nil, err
	}

	existing, err := fs.Store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch request %s: %w", requestID, err)
	}
	if existing == nil {
		return nil, nil, fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}
	if existing.ShelterID != input.ShelterID {
		return nil, nil, fmt.Errorf("%w: request %s is not owned by shelter %s", ErrPermissionDenied, requestID, input.ShelterID)
	}

	embedding, err := fs.Embedder.EmbedItem(ctx, input.Category, input.ItemName, input.Quantity)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if err := fs.deleteStaleRequestMatch(ctx, input.ShelterID, requestID); err != nil {
		return nil, nil, err
	}

	updated := &models.Request{
		ID:        requestID,
		ShelterID: existing.ShelterID,
		ItemName:  input.ItemName,
		Quantity:  input.Quantity,
		Category:  input.Category,
		Embedding: embedding,
		CreatedAt: existing.CreatedAt,
	}
	if err := fs.Store.PutRequest(ctx, updated); err != nil {
		return nil, nil, fmt.Errorf("failed to store updated request: %w", err)
	}

	best := fs.rematchRequest(ctx, requestID)
	return updated, best, nil
}

// DeleteDonation removes a donation, deletes any match built from it and
// prunes the donation id out of the donor's donation_ids.
func (fs *FormsService) DeleteDonation(ctx context.Context, donationID, donorID string) error {
	existed, err := fs.Store.DeleteDonation(ctx, donationID)
	if err != nil {
		return fmt.Errorf("failed to delete donation %s: %w", donationID, err)
	}
	if !existed {
		return fmt.Errorf("%w: donation %s", ErrNotFound, donationID)
	}

	if err := fs.deleteStaleDonationMatch(ctx, donorID, donationID); err != nil {
		return err
	}
	if err := fs.Store.RemoveID(ctx, models.DonorsTable, donorID, models.DonorDonationIDsAttr, donationID); err != nil {
		return fmt.Errorf("failed to prune donor donation_ids: %w", err)
	}
	return nil
}

// DeleteRequest mirrors DeleteDonation for the shelter side.
func (fs *FormsService) DeleteRequest(ctx context.Context, requestID, shelterID string) error {
	existed, err := fs.Store.DeleteRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to delete request %s: %w", requestID, err)
	}
	if !existed {
		return fmt.Errorf("%w: request %s", ErrNotFound, requestID)
	}

	if err := fs.deleteStaleRequestMatch(ctx, shelterID, requestID); err != nil {
		return err
	}
	if err := fs.Store.RemoveID(ctx, models.SheltersTable, shelterID, models.ShelterRequestIDsAttr, requestID); err != nil {
		return fmt.Errorf("failed to prune shelter request_ids: %w", err)
	}
	return nil
}

// ListDonations returns all donations in the system.
func (fs *FormsService) ListDonations(ctx context.Context) ([]models.Donation, error) {
	return fs.Store.ListDonations(ctx)
}

// ListRequests returns all shelter requests in the system.
func (fs *FormsService) ListRequests(ctx context.Context) ([]models.Request, error) {
	return fs.Store.ListRequests(ctx)
}

// deleteStaleDonationMatch scans the donor's match_ids for a match keyed to
// the given donation and deletes it. The party arrays are the only index
// from a donation to its match.
func (fs *FormsService) deleteStaleDonationMatch(ctx context.Context, donorID, donationID string) error {
	donor, err := fs.Store.GetDonor(ctx, donorID)
	if err != nil {
		return fmt.Errorf("failed to fetch donor %s: %w", donorID, err)
	}
	if donor == nil {
		return nil
	}
	for _, matchID := range donor.MatchIDs {
		match, err := fs.Store.GetMatch(ctx, matchID)
		if err != nil {
			return fmt.Errorf("failed to fetch match %s: %w", matchID, err)
		}
		if match == nil || match.DonationID != donationID {
			continue
		}
		if err := fs.Matches.DeleteMatch(ctx, matchID); err != nil {
			return fmt.Errorf("failed to delete stale match %s: %w", matchID, err)
		}
	}
	return nil
}

// deleteStaleRequestMatch mirrors deleteStaleDonationMatch on the shelter
// side.
func (fs *FormsService) deleteStaleRequestMatch(ctx context.Context, shelterID, requestID string) error {
	shelter, err := fs.Store.GetShelter(ctx, shelterID)
	if err != nil {
		return fmt.Errorf("failed to fetch shelter %s: %w", shelterID, err)
	}
	if shelter == nil {
		return nil
	}
	for _, matchID := range shelter.MatchIDs {
		match, err := fs.Store.GetMatch(ctx, matchID)
		if err != nil {
			return fmt.Errorf("failed to fetch match %s: %w", matchID, err)
		}
		if match == nil || match.RequestID != requestID {
			continue
		}
		if err := fs.Matches.DeleteMatch(ctx, matchID); err != nil {
			return fmt.Errorf("failed to delete stale match %s: %w", matchID, err)
		}
	}
	return nil
}

// rematchDonation runs the best-match search after an edit and persists the
// winner if there is one. The edit itself has already succeeded, so search
// or save problems are logged instead of failing the update.
func (fs *FormsService) rematchDonation(ctx context.Context, donationID string) *models.MatchCandidate {
	best, err := fs.Vector.BestMatchForDonation(ctx, donationID)
	if err != nil {
		log.Printf("Best-match search after updating donation %s failed: %v", donationID, err)
		return nil
	}
	if best == nil {
		return nil
	}
	if _, err := fs.Matches.SaveMatches(ctx, []models.MatchCandidate{*best}); err != nil {
		log.Printf("Failed to save best match for donation %s: %v", donationID, err)
	}
	return best
}

func (fs *FormsService) rematchRequest(ctx context.Context, requestID string) *models.MatchCandidate {
	best, err := fs.Vector.BestMatchForRequest(ctx, requestID)
	if err != nil {
		log.Printf("Best-match search after updating request %s failed: %v", requestID, err)
		return nil
	}
	if best == nil {
		return nil
	}
	if _, err := fs.Matches.SaveMatches(ctx, []models.MatchCandidate{*best}); err != nil {
		log.Printf("Failed to save best match for request %s: %v", requestID, err)
	}
	return best
}
