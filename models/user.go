package models

import "time"

type User struct {
	UserID        string    `bson:"user_id" json:"user_id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	Password      string    `bson:"password" json:"-"`
	PhoneNumber   string    `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	Country       string    `bson:"country,omitempty" json:"country,omitempty"`
	Gender        string    `bson:"gender,omitempty" json:"gender,omitempty"`
	DOB           string    `bson:"dob,omitempty" json:"dob,omitempty"`
	AvatarURL     string    `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Role          string    `bson:"role" json:"role"`
	Rank          string    `bson:"rank" json:"rank"`
	Status        bool      `bson:"status" json:"status"`
	RefreshToken  string    `bson:"refresh_token,omitempty" json:"-"`
	RefreshExpiry time.Time `bson:"refresh_expiry,omitempty" json:"-"`
	LastLogin     time.Time `bson:"last_login,omitempty" json:"-"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
