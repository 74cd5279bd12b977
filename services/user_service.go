package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shelterlink_server/models"
)

// UserService manages donor and shelter accounts, including the cascade
// that removes a party's items and matches when the account is deleted.
type UserService struct {
	Store Storage
	Forms *FormsService
}

// DonorRegistration carries the fields of the donor signup form.
type DonorRegistration struct {
	UserID      string `json:"userID"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// ShelterRegistration carries the fields of the shelter signup form.
type ShelterRegistration struct {
	UserID        string `json:"userID"`
	Username      string `json:"username"`
	ShelterName   string `json:"shelter_name"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phone_number"`
	StreetAddress string `json:"street_address,omitempty"`
	City          string `json:"city,omitempty"`
	State         string `json:"state,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`
	Latitude      float64 `json:"latitude,omitempty"`
	Longitude     float64 `json:"longitude,omitempty"`
}

// UserInfo is the lookup result for a uid that may be either party kind.
type UserInfo struct {
	UserType string      `json:"userType"`
	UserData interface{} `json:"userData"`
}

// RegisterDonor creates a donor account with empty back-reference arrays.
func (us *UserService) RegisterDonor(ctx context.Context, input DonorRegistration) (*models.Donor, error) {
	if input.UserID == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: userID and email are required", ErrInvalidArgument)
	}

	existing, err := us.Store.GetDonor(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check donor %s: %w", input.UserID, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: donor %s is already registered", ErrInvalidArgument, input.UserID)
	}

	donor := &models.Donor{
		UID:         input.UserID,
		Name:        input.Name,
		Username:    input.Username,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := us.Store.PutDonor(ctx, donor); err != nil {
		return nil, fmt.Errorf("failed to store donor: %w", err)
	}
	return donor, nil
}

// RegisterShelter creates a shelter account with empty back-reference
// arrays.
func (us *UserService) RegisterShelter(ctx context.Context, input ShelterRegistration) (*models.Shelter, error) {
	if input.UserID == "" || input.Email == "" {
		return nil, fmt.Errorf("%w: userID and email are required", ErrInvalidArgument)
	}

	existing, err := us.Store.GetShelter(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check shelter %s: %w", input.UserID, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: shelter %s is already registered", ErrInvalidArgument, input.UserID)
	}

	shelter := &models.Shelter{
		UID:           input.UserID,
		Username:      input.Username,
		ShelterName:   input.ShelterName,
		Email:         input.Email,
		PhoneNumber:   input.PhoneNumber,
		StreetAddress: input.StreetAddress,
		City:          input.City,
		State:         input.State,
		ZipCode:       input.ZipCode,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := us.Store.PutShelter(ctx, shelter); err != nil {
		return nil, fmt.Errorf("failed to store shelter: %w", err)
	}
	return shelter, nil
}

// GetUserInfo looks a uid up in the donors table first, then the shelters
// table.
func (us *UserService) GetUserInfo(ctx context.Context, uid string) (*UserInfo, error) {
	donor, err := us.Store.GetDonor(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor %s: %w", uid, err)
	}
	if donor != nil {
		return &UserInfo{UserType: "donor", UserData: donor}, nil
	}

	shelter, err := us.Store.GetShelter(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shelter %s: %w", uid, err)
	}
	if shelter != nil {
		return &UserInfo{UserType: "shelter", UserData: shelter}, nil
	}
	return nil, fmt.Errorf("%w: user %s", ErrNotFound, uid)
}

// ListShelters returns every shelter with its location information.
func (us *UserService) ListShelters(ctx context.Context) ([]models.Shelter, error) {
	return us.Store.ListShelters(ctx)
}

// DeleteDonor removes a donor account, cascading child-first through its
// donations (each of which cleans up its own match). A failing child aborts
// the cascade with the remaining items untouched; an id whose donation is
// already gone is skipped.
func (us *UserService) DeleteDonor(ctx context.Context, uid string) error {
	donor, err := us.Store.GetDonor(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to fetch donor %s: %w", uid, err)
	}
	if donor == nil {
		return fmt.Errorf("%w: donor %s", ErrNotFound, uid)
	}

	for _, donationID := range donor.DonationIDs {
		if err := us.Forms.DeleteDonation(ctx, donationID, uid); err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Printf("Donation %s of donor %s is already gone, skipping", donationID, uid)
				continue
			}
			return fmt.Errorf("cascade aborted at donation %s: %w", donationID, err)
		}
	}

	if _, err := us.Store.DeleteDonor(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete donor %s: %w", uid, err)
	}
	return nil
}

// DeleteShelter mirrors DeleteDonor for shelters and their requests.
func (us *UserService) DeleteShelter(ctx context.Context, uid string) error {
	shelter, err := us.Store.GetShelter(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to fetch shelter %s: %w", uid, err)
	}
	if shelter == nil {
		return fmt.Errorf("%w: shelter %s", ErrNotFound, uid)
	}

	for _, requestID := range shelter.RequestIDs {
		if err := us.Forms.DeleteRequest(ctx, requestID, uid); err != nil {
			if errors.Is(err, ErrNotFound) {
				log.Printf("Request %s of shelter %s is already gone, skipping", requestID, uid)
				continue
			}
			return fmt.Errorf("cascade aborted at request %s: %w", requestID, err)
		}
	}

	if _, err := us.Store.DeleteShelter(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete shelter %s: %w", uid, err)
	}
	return nil
}
