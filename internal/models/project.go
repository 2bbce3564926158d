package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusTest      ProjectStatus = "test"
	ProjectStatusArchived  ProjectStatus = "archived"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// ProjectStatuses lists every accepted status value.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusActive,
	ProjectStatusOnHold,
	ProjectStatusTest,
	ProjectStatusArchived,
	ProjectStatusCompleted,
}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Project struct {
	ID                uint64        `gorm:"primarykey" json:"id"`
	OrganizationID    uint64        `gorm:"not null;index" json:"organization_id"`
	Name              string        `gorm:"type:varchar(255);not null" json:"name"`
	Description       *string       `gorm:"type:text" json:"description"`
	Status            ProjectStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedByID       *uint64       `gorm:"index" json:"created_by_id"`
	AppointedPersonID *uint64       `gorm:"index" json:"appointed_person_id"`
	IsDeleted         bool          `gorm:"not null;index" json:"is_deleted"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	// Relations
	Organization    Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	CreatedBy       *User        `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`
	AppointedPerson *User        `gorm:"foreignKey:AppointedPersonID;constraint:OnDelete:SET NULL" json:"-"`
}

// IsAppointed reports whether userID is the project's appointed person.
func (p *Project) IsAppointed(userID uint64) bool {
	return p.AppointedPersonID != nil && *p.AppointedPersonID == userID
}
