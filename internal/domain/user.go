package domain

import "time"

type Role string

const (
	RoleHotel   Role = "hotel"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// UserStatus has no client-side transition rules; the backend decides legality.
type UserStatus string

const (
	StatusPending   UserStatus = "pending"
	StatusVerified  UserStatus = "verified"
	StatusRejected  UserStatus = "rejected"
	StatusSuspended UserStatus = "suspended"
)

var UserStatuses = []UserStatus{StatusPending, StatusVerified, StatusRejected, StatusSuspended}

func (s UserStatus) Valid() bool {
	for _, v := range UserStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (r Role) Valid() bool {
	return r == RoleHotel || r == RoleCreator || r == RoleAdmin
}

type User struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Name           string                `json:"name"`
	Type           Role                  `json:"type"`
	Status         UserStatus            `json:"status"`
	Avatar         *string               `json:"avatar,omitempty"`
	EmailVerified  *bool                 `json:"email_verified,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
	CreatorProfile *CreatorProfile       `json:"creator_profile,omitempty"`
	HotelProfile   *HotelProfile         `json:"hotel_profile,omitempty"`
	Platforms      []SocialMediaPlatform `json:"social_media_platforms,omitempty"`
	Listings       []Listing             `json:"listings,omitempty"`
}

type CreatorProfile struct {
	ID               string   `json:"id,omitempty"`
	UserID           string   `json:"user_id,omitempty"`
	Location         string   `json:"location,omitempty"`
	Bio              string   `json:"bio,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
	Website          string   `json:"website,omitempty"`
	PortfolioLink    string   `json:"portfolio_link,omitempty"`
	Niche            string   `json:"niche,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	ProfilePicture   string   `json:"profile_picture,omitempty"`
	FollowerCount    *int64   `json:"follower_count,omitempty"`
	Platforms        []string `json:"platforms,omitempty"`
	ProfileComplete  *bool    `json:"profile_complete,omitempty"`
}

type HotelProfile struct {
	ID              string `json:"id,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	HotelName       string `json:"hotel_name,omitempty"`
	Name            string `json:"name,omitempty"`
	Location        string `json:"location,omitempty"`
	About           string `json:"about,omitempty"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	Country         string `json:"country,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Website         string `json:"website,omitempty"`
	Picture         string `json:"picture,omitempty"`
	StarRating      *int   `json:"star_rating,omitempty"`
	ProfileComplete *bool  `json:"profile_complete,omitempty"`
}

// Identity is the flat user record persisted next to the session token.
type Identity struct {
	ID     string     `json:"id"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Type   Role       `json:"type"`
	Status UserStatus `json:"status"`
}
