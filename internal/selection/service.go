package selection

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

type SelectionService struct {
	DB *gorm.DB
}

// Get returns the user's current selection, or an empty one when nothing
// has been selected yet.
func (s *SelectionService) Get(userID uint) (Selection, error) {
	if userID == 0 {
		return Selection{}, errors.New("user id is required")
	}

	var sel Selection
	err := s.DB.Where("user_id = ?", userID).First(&sel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Selection{UserID: userID}, nil
		}
		return Selection{}, err
	}
	return sel, nil
}

// Set applies a partial update to the user's selection. A new client id
// clears the contract level unless the same request sets one explicitly.
func (s *SelectionService) Set(userID uint, input UpdateSelectionInput) (Selection, error) {
	if userID == 0 {
		return Selection{}, errors.New("user id is required")
	}

	var sel Selection
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("user_id = ?", userID).First(&sel).Error
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			sel = Selection{UserID: userID}
		}

		if input.ClientID != nil {
			newClient := strings.TrimSpace(*input.ClientID)
			if newClient != sel.ClientID {
				sel.ContractID = ""
			}
			sel.ClientID = newClient
		}
		if input.ContractID != nil {
			sel.ContractID = strings.TrimSpace(*input.ContractID)
		}

		// A contract without a client makes no sense in the hierarchy
		if sel.ClientID == "" {
			sel.ContractID = ""
		}

		return tx.Save(&sel).Error
	})
	if err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// Clear removes the user's selection entirely.
func (s *SelectionService) Clear(userID uint) error {
	if userID == 0 {
		return errors.New("user id is required")
	}
	return s.DB.Where("user_id = ?", userID).Delete(&Selection{}).Error
}
