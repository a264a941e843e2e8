package domain

import "time"

type Child struct {
	ID          ChildID    `gorm:"type:varchar(36);primaryKey" db:"id"`
	FirstName   string     `gorm:"type:varchar(100);not null" db:"first_name"`
	LastName    string     `gorm:"type:varchar(100);not null" db:"last_name"`
	DateOfBirth time.Time  `gorm:"type:date;not null" db:"date_of_birth"`
	Status      UserStatus `gorm:"type:varchar(50);not null" db:"status"`
	CreatedAt   time.Time  `gorm:"not null" db:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" db:"updated_at"`
}

func (Child) TableName() string { return "child" }

type ParentChild struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" db:"id"`
	ParentID  UserID     `gorm:"type:varchar(36);not null;index" db:"parent_id"`
	ChildID   ChildID    `gorm:"type:varchar(36);not null;index" db:"child_id"`
	Child     *Child     `gorm:"foreignKey:ChildID" db:"-"`
	Relation  string     `gorm:"type:varchar(50);not null" db:"relation"`
	Status    RoleStatus `gorm:"type:varchar(50);not null" db:"status"`
	CreatedAt time.Time  `gorm:"not null" db:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" db:"updated_at"`
}

func (ParentChild) TableName() string { return "parent_child" }
