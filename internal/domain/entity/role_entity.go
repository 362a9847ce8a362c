package entity

// Role is the marketplace role of an account.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// UserType distinguishes private sellers from businesses.
type UserType string

const (
	UserTypeIndividual   UserType = "particulier"
	UserTypeProfessional UserType = "professionnel"
)

func (t UserType) Valid() bool {
	return t == UserTypeIndividual || t == UserTypeProfessional
}
