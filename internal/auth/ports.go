package auth

import "contract-admin-api/internal/audit"

type AuthServicePort interface {
	CreateUser(user User) (*User, error)
	GetUser(email string) (*User, error)
	GetUserByID(id int) (*User, error)
	GetAllUsers() ([]User, error)
	SetRole(id int, role string) (*User, error)
	SendOTP(email string) (*User, string, error)
	ResetPassword(email, code, newPassword string) (*User, error)
}

type AuditLogPort interface {
	Log(entry audit.AuditLog, metadata interface{}) error
}

var _ AuthServicePort = (*AuthService)(nil)
var _ AuditLogPort = (*audit.AuditService)(nil)
