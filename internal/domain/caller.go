package domain

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleCustomer Role = "CUSTOMER"
)

// Caller is the resolved identity behind a request, produced by the token
// manager before any service method runs.
type Caller struct {
	UserID int32 `json:"user_id"`
	Role   Role  `json:"role"`
}

// IsStaff reports whether the caller may act on records they do not own.
func (c Caller) IsStaff() bool {
	return c.Role == RoleAdmin || c.Role == RoleManager
}

// CanAccessRental allows the rental's owner and staff.
func (c Caller) CanAccessRental(r *Rental) bool {
	return c.IsStaff() || r.UserID == c.UserID
}

// CanAccessPayment allows the payment's owner and staff.
func (c Caller) CanAccessPayment(p *Payment) bool {
	return c.IsStaff() || p.UserID == c.UserID
}
