package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() *User {
	u := &User{
		Email: " seller@soukoni.tz ",
		Token: strings.Repeat("t", 64),
		Salt:  strings.Repeat("s", 64),
		Hash:  "hash",
		Account: Account{
			Username: " juma ",
			Phone:    "+255 712 345 678",
		},
	}
	u.Normalize()
	return u
}

func TestUserNormalize(t *testing.T) {
	u := validUser()
	assert.Equal(t, "seller@soukoni.tz", u.Email)
	assert.Equal(t, "juma", u.Account.Username)
	assert.Equal(t, RoleBuyer, u.Role)
	assert.Equal(t, UserTypeIndividual, u.UserType)
}

func TestUserValidate(t *testing.T) {
	require.NoError(t, validUser().Validate())

	cases := map[string]func(u *User){
		"bad email":     func(u *User) { u.Email = "not-an-email" },
		"long email":    func(u *User) { u.Email = strings.Repeat("a", 45) + "@x.com" },
		"no username":   func(u *User) { u.Account.Username = "" },
		"no phone":      func(u *User) { u.Account.Phone = "" },
		"bad phone":     func(u *User) { u.Account.Phone = "0712345678" },
		"bad role":      func(u *User) { u.Role = "root" },
		"bad user type": func(u *User) { u.UserType = "company" },
		"long salt":     func(u *User) { u.Salt = strings.Repeat("s", 129) },
		"missing token": func(u *User) { u.Token = "" },
	}
	for name, mutate := range cases {
		u := validUser()
		mutate(u)
		assert.Error(t, u.Validate(), name)
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("+255 712 345 678"))
	assert.False(t, ValidPhone("+255712345678"))
	assert.False(t, ValidPhone("+25 712 345 678"))
}
