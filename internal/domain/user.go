package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the projection returned on sign-in.
type PublicUser struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UserPatch is the decoded body of a user update. Nil fields are left alone.
type UserPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

func (p UserPatch) Validate() error {
	v := NewValidator()
	if p.Name != nil {
		v.CheckRequired(*p.Name, "name")
	}
	if p.Email != nil {
		v.CheckEmail(*p.Email)
	}
	if p.Password != nil {
		v.CheckPassword(*p.Password)
	}
	return v.Err()
}

// UserUpdate is what a store applies: already validated, password already hashed.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	UpdatedAt    time.Time
}

// Principal is the identity attached to a request after token validation.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewID returns a fresh 24-hex-digit object id.
func NewID() string {
	return primitive.NewObjectID().Hex()
}

func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}
