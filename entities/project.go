package entities

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_projects_user_id"`
	ProjectName string    `json:"projectname" gorm:"type:varchar(25);not null"`
	Description string    `json:"description" gorm:"type:varchar(300)"`
	FileName    string    `json:"filename" gorm:"type:varchar(255);not null"`
	Transcript  string    `json:"transcript" gorm:"type:text;not null"`
	IsFree      bool      `json:"is_free" gorm:"not null;default:false"`
	Duration    float64   `json:"duration" gorm:"type:double precision;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}
