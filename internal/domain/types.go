package domain

type UserID = string
type RoleID = string
type ChildID = string

type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

type RoleStatus string

const (
	RoleStatusEnabled  RoleStatus = "ENABLED"
	RoleStatusDisabled RoleStatus = "DISABLED"
)

const (
	RoleAdmin   = "ADMIN"
	RoleParent  = "PARENT"
	RoleTeacher = "TEACHER"
)
