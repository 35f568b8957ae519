package entities

import "github.com/google/uuid"

// UserKey stores a user-supplied OpenAI API key, used once free credits
// are exhausted.
type UserKey struct {
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;primary_key"`
	APIKey string    `json:"api_key" gorm:"type:varchar(255)"`
}

func (UserKey) TableName() string {
	return "user_keys"
}
