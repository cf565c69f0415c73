package model

// Role distinguishes customers from operators. Identity itself is issued by
// an external collaborator; requests arrive already authenticated.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOperator Role = "operator"
)

// Valid reports whether the role is known.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleOperator
}
