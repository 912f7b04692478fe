// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Staff roles and statuses as stored in the admin table.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
	RoleCron  = "cron"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Admin is a staff member account able to sign into the admin area.
type Admin struct {
	ID           int64     `json:"id" db:"id"`
	AdminGroupID int64     `json:"admin_group_id" db:"admin_group_id"`
	Role         string    `json:"role" db:"role"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"pass"`
	Name         string    `json:"name" db:"name"`
	Signature    string    `json:"signature" db:"signature"`
	Status       string    `json:"status" db:"status"`
	Permissions  string    `json:"-" db:"permissions"` // JSON document, see Permissions
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AdminView is the API representation of a staff member.
type AdminView struct {
	ID        int64          `json:"id"`
	Role      string         `json:"role"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Signature string         `json:"signature"`
	Status    string         `json:"status"`
	Group     AdminGroupView `json:"group"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AdminPatch carries optional staff member changes; nil fields stay untouched.
type AdminPatch struct {
	Email        *string
	Name         *string
	Status       *string
	Signature    *string
	AdminGroupID *int64
}

// Permissions maps a module name to its granted keys.
type Permissions map[string]map[string]bool

// AdminGroup groups staff members.
type AdminGroup struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AdminGroupView is the API shape of a group. Members are filled for detail views only.
type AdminGroupView struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
	UpdatedAt time.Time   `json:"updated_at,omitempty"`
	Members   []AdminView `json:"members,omitempty"`
}

// AdminLogin is one staff sign-in event.
type AdminLogin struct {
	ID        int64     `json:"id" db:"id"`
	AdminID   int64     `json:"admin_id" db:"admin_id"`
	IP        string    `json:"ip" db:"ip"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// joined from admin on reads
	AdminName  string `json:"-" db:"admin_name"`
	AdminEmail string `json:"-" db:"admin_email"`
}

// AdminLoginView adds the staff member summary to a login event.
type AdminLoginView struct {
	ID        int64        `json:"id"`
	IP        string       `json:"ip"`
	CreatedAt time.Time    `json:"created_at"`
	Staff     AdminSummary `json:"staff"`
}

// AdminSummary is the short staff reference embedded in other views.
type AdminSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client is a billed customer. Only the fields the ledger needs are mapped.
type Client struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Currency  string    `json:"currency" db:"currency"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ClientBalance is one ledger entry. Negative amounts are deductions.
type ClientBalance struct {
	ID          int64     `json:"id" db:"id"`
	ClientID    int64     `json:"client_id" db:"client_id"`
	Type        string    `json:"type" db:"type"`
	RelID       *string   `json:"rel_id,omitempty" db:"rel_id"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"amount" db:"amount"`
	Currency    string    `json:"currency,omitempty" db:"currency"` // filled by list queries only
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ClientBalanceView is the API shape of a ledger entry.
type ClientBalanceView struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}
