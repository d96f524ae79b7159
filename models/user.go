package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a stored account. Department accounts only exist once an admin
// has approved the matching signup request.
type User struct {
	ID               string    `bson:"_id" json:"user_id"`
	Name             string    `bson:"name" json:"name"`
	Email            string    `bson:"email" json:"email"`
	Phone            string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Password         string    `bson:"password,omitempty" json:"-"`
	Role             Role      `bson:"role" json:"role"`
	DepartmentID     string    `bson:"departmentId,omitempty" json:"department_id,omitempty"`
	AnonymousAllowed bool      `bson:"anonymousAllowed" json:"is_anonymous_allowed"`
	CreatedAt        time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updated_at"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}

// Principal returns the session principal for the account.
func (u *User) Principal() Principal {
	p := Principal{ID: u.ID, Role: u.Role, Name: u.Name}
	if u.Role == RoleDepartment {
		p.DepartmentID = u.DepartmentID
	}
	return p
}
