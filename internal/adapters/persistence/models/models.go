package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Users & Roles
// ============================================================

// User statuses
const (
	UserStatusActive   = "ACTIVE"
	UserStatusDisabled = "DISABLED"
	UserStatusLocked   = "LOCKED"
)

// User represents users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email     *string        `gorm:"uniqueIndex;size:100" json:"email,omitempty"`
	Phone     *string        `gorm:"uniqueIndex;size:20" json:"phone,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Status    string         `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:user_roles" json:"roles,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may authenticate
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// RoleNames returns the names of the user's roles
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		names[i] = role.Name
	}
	return names
}

// PermissionCodes flattens role permissions into a deduplicated code set
func (u *User) PermissionCodes() []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, role := range u.Roles {
		for _, perm := range role.Permissions {
			if _, ok := seen[perm.Code]; !ok {
				seen[perm.Code] = struct{}{}
				codes = append(codes, perm.Code)
			}
		}
	}
	return codes
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Status    string    `json:"status"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	roles := u.RoleNames()
	if roles == nil {
		roles = []string{}
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Status:    u.Status,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

// Role represents roles table
type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Menus       []Menu       `gorm:"many2many:role_menus" json:"menus,omitempty"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Default role names
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ============================================================
// Menus & Permissions
// ============================================================

// Menu represents a navigable UI node. ParentID nil means root; the tree
// is rendered children-first by Sort ascending.
type Menu struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	Path      string    `gorm:"size:200;not null" json:"path"`
	Icon      string    `gorm:"size:50" json:"icon,omitempty"`
	Sort      int       `gorm:"not null;default:0" json:"sort"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Children []Menu `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	Roles    []Role `gorm:"many2many:role_menus" json:"-"`
}

func (Menu) TableName() string {
	return "menus"
}

// Permission represents an atomic grantable action code
type Permission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:100;not null" json:"code"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

// ============================================================
// Verification Codes & Refresh Tokens
// ============================================================

// Verification code types
const (
	VerifyTypeEmailReset = "email_reset"
	VerifyTypePhoneReset = "phone_reset"
)

// VerificationCode is a one-time numeric code proving control of an
// email or phone. A code is consumable only while unused and unexpired;
// exactly one used:false -> true transition is permitted.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"size:20;not null;index:idx_codes_target" json:"type"`
	Target    string    `gorm:"size:100;not null;index:idx_codes_target" json:"target"`
	Code      string    `gorm:"size:10;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// IsExpired reports whether the code is past its expiry
func (v *VerificationCode) IsExpired() bool {
	return time.Now().After(v.ExpiresAt)
}

// Consumable reports whether the code may still be consumed
func (v *VerificationCode) Consumable() bool {
	return !v.Used && !v.IsExpired()
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Role{},
		&Menu{},
		&Permission{},
		&VerificationCode{},
		&RefreshToken{},
	)
}
