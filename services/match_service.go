package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"shelterlink_server/models"

	"github.com/google/uuid"
)

// MatchNotifier delivers the "you have a match" notification to both
// parties. Delivery failures must never propagate into the save path.
type MatchNotifier interface {
	SendMatchEmails(donorEmail, shelterEmail string, match *models.Match, donorPhone, shelterPhone string)
}

// MatchService persists match candidates, drives the confirmation state
// machine and deletes matches together with their back-references.
type MatchService struct {
	Store    Storage
	Notifier MatchNotifier

	// Serializes status transitions per match id so two concurrent
	// confirmations cannot both observe the same starting status.
	matchLocks keyedMutex
}

// SaveFailure describes one candidate of a batch that could not be saved.
type SaveFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// SaveResult reports a batch save: candidates are persisted independently,
// so a partial success is a normal outcome.
type SaveResult struct {
	Saved   int            `json:"saved"`
	Matches []models.Match `json:"matches"`
	Failed  []SaveFailure  `json:"failed,omitempty"`
}

// SaveMatches persists each candidate as a pending Match: a fresh id, a
// denormalized row, and the match id appended to both parties' match_ids.
// One candidate's failure does not roll back siblings already committed.
// Notification is dispatched in the background and never fails the save.
func (ms *MatchService) SaveMatches(ctx context.Context, candidates []models.MatchCandidate) (*SaveResult, error) {
	result := &SaveResult{}

	for i, candidate := range candidates {
		match := models.Match{
			ID:            uuid.NewString(),
			DonorID:       candidate.DonorID,
			DonorUsername: candidate.DonorName,
			ShelterID:     candidate.ShelterID,
			ShelterName:   candidate.ShelterName,
			ItemName:      candidate.ItemName,
			Quantity:      candidate.Quantity,
			Category:      candidate.Category,
			DonationID:    candidate.DonationID,
			RequestID:     candidate.RequestID,
			MatchedAt:     time.Now().UTC().Format(time.RFC3339),
			Status:        models.MatchStatusPending,
		}
		if match.DonorUsername == "" {
			match.DonorUsername = "Unknown"
		}
		if match.ShelterName == "" {
			match.ShelterName = "Unknown"
		}

		if err := ms.saveOne(ctx, &match); err != nil {
			log.Printf("Failed to save match for donation %s / request %s: %v", candidate.DonationID, candidate.RequestID, err)
			result.Failed = append(result.Failed, SaveFailure{Index: i, Error: err.Error()})
			continue
		}

		result.Saved++
		result.Matches = append(result.Matches, match)
		ms.notify(match)
	}

	return result, nil
}

func (ms *MatchService) saveOne(ctx context.Context, match *models.Match) error {
	if err := ms.Store.PutMatch(ctx, match); err != nil {
		return fmt.Errorf("failed to write match row: %w", err)
	}
	if err := ms.Store.AppendID(ctx, models.DonorsTable, match.DonorID, models.DonorMatchIDsAttr, match.ID); err != nil {
		return fmt.Errorf("failed to update donor match_ids: %w", err)
	}
	if err := ms.Store.AppendID(ctx, models.SheltersTable, match.ShelterID, models.ShelterMatchIDsAttr, match.ID); err != nil {
		return fmt.Errorf("failed to update shelter match_ids: %w", err)
	}
	return nil
}

// notify looks up both parties' contact emails and fires the notification in
// the background. A missing email suppresses only that one recipient.
func (ms *MatchService) notify(match models.Match) {
	if ms.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var donorEmail, donorPhone, shelterEmail, shelterPhone string
		donor, err := ms.Store.GetDonor(ctx, match.DonorID)
		if err != nil {
			log.Printf("Match %s: failed to look up donor for notification: %v", match.ID, err)
		} else if donor != nil {
			donorEmail, donorPhone = donor.Email, donor.PhoneNumber
		}
		shelter, err := ms.Store.GetShelter(ctx, match.ShelterID)
		if err != nil {
			log.Printf("Match %s: failed to look up shelter for notification: %v", match.ID, err)
		} else if shelter != nil {
			shelterEmail, shelterPhone = shelter.Email, shelter.PhoneNumber
		}

		ms.Notifier.SendMatchEmails(donorEmail, shelterEmail, &match, donorPhone, shelterPhone)
	}()
}

// ResolveMatchStatus applies one confirmation to a match status:
//
//	pending + donor   -> donor
//	pending + shelter -> shelter
//	donor  + shelter  -> both
//	shelter + donor   -> both
//
// Re-confirming the same side is a no-op and "both" is terminal.
func ResolveMatchStatus(current models.MatchStatus, confirmerIsDonor bool) models.MatchStatus {
	switch current {
	case models.MatchStatusPending:
		if confirmerIsDonor {
			return models.MatchStatusDonor
		}
		return models.MatchStatusShelter
	case models.MatchStatusDonor:
		if !confirmerIsDonor {
			return models.MatchStatusBoth
		}
		return models.MatchStatusDonor
	case models.MatchStatusShelter:
		if confirmerIsDonor {
			return models.MatchStatusBoth
		}
		return models.MatchStatusShelter
	default:
		return models.MatchStatusBoth
	}
}

// ConfirmMatch records one party's confirmation of a match and returns the
// resulting status. Repeating a confirmation is idempotent: the status is
// returned either way and only actual changes are written.
func (ms *MatchService) ConfirmMatch(ctx context.Context, matchID, userUID string) (models.MatchStatus, error) {
	unlock := ms.matchLocks.lock(matchID)
	defer unlock()

	match, err := ms.Store.GetMatch(ctx, matchID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	if match == nil {
		return "", fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	if userUID != match.DonorID && userUID != match.ShelterID {
		return "", fmt.Errorf("%w: user %s is not part of match %s", ErrPermissionDenied, userUID, matchID)
	}

	next := ResolveMatchStatus(match.Status, userUID == match.DonorID)
	if next != match.Status {
		if err := ms.Store.SetMatchStatus(ctx, matchID, next); err != nil {
			return "", fmt.Errorf("failed to update match status: %w", err)
		}
	}
	return next, nil
}

// DeleteMatch is the inverse of saving: it removes the match row and prunes
// the match id out of both parties' match_ids in the same logical operation.
func (ms *MatchService) DeleteMatch(ctx context.Context, matchID string) error {
	match, err := ms.Store.GetMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	if match == nil {
		return fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	if _, err := ms.Store.DeleteMatch(ctx, matchID); err != nil {
		return fmt.Errorf("failed to delete match row: %w", err)
	}
	if err := ms.Store.RemoveID(ctx, models.DonorsTable, match.DonorID, models.DonorMatchIDsAttr, matchID); err != nil {
		return fmt.Errorf("failed to prune donor match_ids: %w", err)
	}
	if err := ms.Store.RemoveID(ctx, models.SheltersTable, match.ShelterID, models.ShelterMatchIDsAttr, matchID); err != nil {
		return fmt.Errorf("failed to prune shelter match_ids: %w", err)
	}
	return nil
}

// GetMatch fetches a single match by id.
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := ms.Store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	if match == nil {
		return nil, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return match, nil
}

// ListMatches returns every match in the system.
func (ms *MatchService) ListMatches(ctx context.Context) ([]models.Match, error) {
	matches, err := ms.Store.ListMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// MatchesForUser resolves a party's match_ids into match rows. Ids that no
// longer resolve are skipped; they can appear transiently while a deletion
// is in flight.
func (ms *MatchService) MatchesForUser(ctx context.Context, uid string) ([]models.Match, error) {
	var matchIDs []string

	donor, err := ms.Store.GetDonor(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor %s: %w", uid, err)
	}
	if donor != nil {
		matchIDs = donor.MatchIDs
	} else {
		shelter, err := ms.Store.GetShelter(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch shelter %s: %w", uid, err)
		}
		if shelter == nil {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, uid)
		}
		matchIDs = shelter.MatchIDs
	}

	matches := make([]models.Match, 0, len(matchIDs))
	for _, id := range matchIDs {
		match, err := ms.Store.GetMatch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch match %s: %w", id, err)
		}
		if match == nil {
			continue
		}
		matches = append(matches, *match)
	}
	return matches, nil
}
