package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docvault/docvault/internal/auth"
	"github.com/docvault/docvault/internal/models"
	"github.com/docvault/docvault/internal/types"
)

// RegisterInput is the payload for creating an administrator or member.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput is the payload for a credential check.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries a signed token and the public identity it names.
type AuthResult struct {
	Token string      `json:"token"`
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// RegisterAdmin creates an administrator account and signs a token for it.
// A taken email is a conflict, never an overwrite.
func RegisterAdmin(db *gorm.DB, secret []byte, ttl time.Duration, in RegisterInput) (*AuthResult, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	// The unique email index is the arbiter; a read-then-create check would
	// race concurrent registrations.
	admin := models.Administrator{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Conflict("System Admin already exists")
		}
		return nil, err
	}

	return issueFor(secret, ttl, admin.ID, admin.Name, admin.Email, models.RoleAdmin)
}

// LoginAdmin checks administrator credentials and signs a token. Unknown
// email and wrong password fail identically.
func LoginAdmin(db *gorm.DB, secret []byte, ttl time.Duration, in LoginInput) (*AuthResult, error) {
	var admin models.Administrator
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("email = ?", in.Email).
		First(&admin).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPassword(admin.PasswordHash, in.Password); err != nil {
		return nil, types.Unauthorized("Invalid credentials")
	}

	return issueFor(secret, ttl, admin.ID, admin.Name, admin.Email, models.RoleAdmin)
}

// RegisterMember creates a member account and signs a token for it.
func RegisterMember(db *gorm.DB, secret []byte, ttl time.Duration, in RegisterInput) (*AuthResult, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	member := models.Member{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := db.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.Conflict("User already exists")
		}
		return nil, err
	}

	return issueFor(secret, ttl, member.ID, member.Name, member.Email, models.RoleMember)
}

// LoginMember checks member credentials and signs a token.
func LoginMember(db *gorm.DB, secret []byte, ttl time.Duration, in LoginInput) (*AuthResult, error) {
	var member models.Member
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("email = ?", in.Email).
		First(&member).Error
	if err == gorm.ErrRecordNotFound {
		return nil, types.Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyPassword(member.PasswordHash, in.Password); err != nil {
		return nil, types.Unauthorized("Invalid credentials")
	}

	return issueFor(secret, ttl, member.ID, member.Name, member.Email, models.RoleMember)
}

// ListMembers returns all member accounts with their grants and the granted
// category names. Administrator only; the handler enforces the role.
func ListMembers(db *gorm.DB) ([]models.Member, error) {
	var members []models.Member
	err := db.Preload("Grants").Preload("Grants.Category").Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func validateRegister(in RegisterInput) error {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return types.Validation("name, email and password are required")
	}
	if len(in.Password) < 6 {
		return types.Validation("password must be at least 6 characters")
	}
	return nil
}

func issueFor(secret []byte, ttl time.Duration, id, name, email string, role models.Role) (*AuthResult, error) {
	token, err := auth.IssueToken(secret, id, role, ttl)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		Token: token,
		ID:    id,
		Name:  name,
		Email: email,
		Role:  role,
	}, nil
}
