package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName      string             `bson:"firstName" json:"firstName"`
	LastName       string             `bson:"lastName" json:"lastName"`
	EmailID        string             `bson:"emailId" json:"emailId"`
	Password       string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Phone          string             `bson:"phone" json:"phone"`
	Role           Role               `bson:"role" json:"role"`
	IsApproved     bool               `bson:"isApproved" json:"isApproved"` // only meaningful for doctors
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	Age            int                `bson:"age,omitempty" json:"age,omitempty"`
	Gender         string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Experience     int                `bson:"experience,omitempty" json:"experience,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the short form embedded in appointment, prescription and report views.
type UserSummary struct {
	ID             primitive.ObjectID `json:"id"`
	FirstName      string             `json:"firstName"`
	LastName       string             `json:"lastName"`
	EmailID        string             `json:"emailId"`
	Role           Role               `json:"role"`
	Specialization string             `json:"specialization,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		EmailID:        u.EmailID,
		Role:           u.Role,
		Specialization: u.Specialization,
	}
}

// Public returns a copy of the user with the password hash cleared.
func (u User) Public() User {
	u.Password = ""
	return u
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
