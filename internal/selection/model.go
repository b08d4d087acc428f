package selection

import "time"

// Selection is one user's navigation context: the client they are working
// on and, under it, the contract. Contract-scoped entities (clauses,
// deliverables, invoices) list against ContractID; contracts list against
// ClientID.
type Selection struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	ClientID   string    `gorm:"size:64" json:"client_id"`
	ContractID string    `gorm:"size:64" json:"contract_id"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Selection) TableName() string { return "selections" }

// UpdateSelectionInput carries partial updates. Nil leaves a level as-is;
// an empty string clears it. Changing the client always clears the
// contract underneath it.
type UpdateSelectionInput struct {
	ClientID   *string `json:"client_id"`
	ContractID *string `json:"contract_id"`
}
