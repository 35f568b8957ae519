package entities

import "github.com/google/uuid"

// Balance holds the remaining free transcription seconds of a user.
type Balance struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Credits float64   `json:"credits" gorm:"type:double precision;not null;default:0"`
}

func (Balance) TableName() string {
	return "balance"
}
