package model

// UserRole is carried in access tokens issued by the identity service.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleOwner UserRole = "owner"
	RoleAdmin UserRole = "admin"
)
