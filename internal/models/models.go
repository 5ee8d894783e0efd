package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin UserRole = "Admin"
	RoleUser  UserRole = "User"
)

// User is the acting identity resolved from the auth token. Only the
// username and the role flag are consumed here; everything else about the
// account lives in the identity provider.
type User struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalPending  ApprovalStatus = "pending_approval"
	ApprovalRejected ApprovalStatus = "rejected"
)

// License is one assigned software license. The JSON keys match the
// inventory screen's wire format, which predates this service.
type License struct {
	ID              int            `json:"id"`
	Product         string         `json:"produto"`
	LicenseType     string         `json:"tipoLicenca,omitempty"`
	SerialKey       string         `json:"chaveSerial"`
	ExpirationDate  string         `json:"dataExpiracao,omitempty"`
	AssignedUser    string         `json:"usuario"`
	JobTitle        string         `json:"cargo,omitempty"`
	Department      string         `json:"setor,omitempty"`
	Manager         string         `json:"gestor,omitempty"`
	CostCenter      string         `json:"centroCusto,omitempty"`
	LedgerAccount   string         `json:"contaRazao,omitempty"`
	ComputerName    string         `json:"nomeComputador,omitempty"`
	TicketNumber    string         `json:"numeroChamado,omitempty"`
	Notes           string         `json:"observacoes,omitempty"`
	ApprovalStatus  ApprovalStatus `json:"approval_status,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	RequestedBy     string         `json:"requested_by,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Approved reports whether the license counts as approved. An absent status
// means the row predates the approval workflow and is treated as approved.
func (l License) Approved() bool {
	return l.ApprovalStatus == "" || l.ApprovalStatus == ApprovalApproved
}

// LicenseTotals maps a product name to its purchased-seat count.
type LicenseTotals map[string]int

type AdminLog struct {
	ID         uuid.UUID              `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	Actor      string                 `json:"actor"`
	Details    map[string]interface{} `json:"details"`
	CreatedAt  time.Time              `json:"created_at"`
}
