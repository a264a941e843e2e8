package domain

import "time"

type User struct {
	ID           UserID     `gorm:"type:varchar(36);primaryKey" db:"id" json:"id"`
	FirstName    string     `gorm:"type:varchar(100);not null" db:"first_name" json:"firstName"`
	LastName     string     `gorm:"type:varchar(100);not null" db:"last_name" json:"lastName"`
	Email        string     `gorm:"type:varchar(100);not null;uniqueIndex:ux_users_email" db:"email" json:"email"`
	PasswordHash string     `gorm:"column:password;type:varchar(255);not null" db:"password" json:"-"`
	Status       UserStatus `gorm:"type:varchar(50);not null" db:"status" json:"status"`
	Roles        []Role     `gorm:"many2many:user_role;" json:"-"`
	CreatedAt    time.Time  `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null" db:"updated_at" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// RoleNames returns the names of the user's loaded roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type Role struct {
	ID          RoleID     `gorm:"type:varchar(36);primaryKey" db:"id"`
	Name        string     `gorm:"type:varchar(128);not null;uniqueIndex:ux_role_name" db:"name"`
	Status      RoleStatus `gorm:"type:varchar(50);not null" db:"status"`
	Permissions string     `gorm:"type:text" db:"permissions"`
	CreatedAt   time.Time  `gorm:"not null" db:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" db:"updated_at"`
}

func (Role) TableName() string { return "role" }
