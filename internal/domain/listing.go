package domain

import "time"

type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
	ListingDraft    ListingStatus = "draft"
	ListingSold     ListingStatus = "sold"
	ListingVerified ListingStatus = "verified"
	ListingPending  ListingStatus = "pending"
)

// Listing is a hotel-owned offer record. Name and AccommodationType are the
// marketplace-side field names; Title is the admin-side one. Both are kept.
type Listing struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	Title             string        `json:"title,omitempty"`
	Name              string        `json:"name,omitempty"`
	Description       string        `json:"description,omitempty"`
	Category          string        `json:"category,omitempty"`
	AccommodationType string        `json:"accommodation_type,omitempty"`
	Price             *float64      `json:"price,omitempty"`
	Currency          string        `json:"currency,omitempty"`
	Status            ListingStatus `json:"status,omitempty"`
	Images            []string      `json:"images,omitempty"`
	Location          string        `json:"location,omitempty"`
	CreatedAt         *time.Time    `json:"created_at,omitempty"`
	UpdatedAt         *time.Time    `json:"updated_at,omitempty"`
}

// DisplayName prefers the admin title and falls back to the marketplace name.
func (l Listing) DisplayName() string {
	if l.Title != "" {
		return l.Title
	}
	return l.Name
}

type ListingInput struct {
	Title             string        `json:"title,omitempty"`
	Name              string        `json:"name,omitempty"`
	Description       string        `json:"description,omitempty"`
	Category          string        `json:"category,omitempty"`
	AccommodationType string        `json:"accommodation_type,omitempty"`
	Price             *float64      `json:"price,omitempty"`
	Currency          string        `json:"currency,omitempty"`
	Status            ListingStatus `json:"status,omitempty"`
	Images            []string      `json:"images,omitempty"`
	Location          string        `json:"location,omitempty"`
}

type PlatformKind string

const (
	PlatformInstagram PlatformKind = "instagram"
	PlatformYouTube   PlatformKind = "youtube"
	PlatformTikTok    PlatformKind = "tiktok"
	PlatformTwitter   PlatformKind = "twitter"
	PlatformFacebook  PlatformKind = "facebook"
	PlatformLinkedIn  PlatformKind = "linkedin"
	PlatformOther     PlatformKind = "other"
)

// SocialMediaPlatform is a creator-owned social account.
type SocialMediaPlatform struct {
	ID             string       `json:"id"`
	UserID         string       `json:"user_id"`
	Platform       PlatformKind `json:"platform"`
	Handle         string       `json:"handle,omitempty"`
	URL            string       `json:"url,omitempty"`
	FollowerCount  *int64       `json:"follower_count,omitempty"`
	EngagementRate *float64     `json:"engagement_rate,omitempty"`
	Verified       *bool        `json:"verified,omitempty"`
	CreatedAt      *time.Time   `json:"created_at,omitempty"`
	UpdatedAt      *time.Time   `json:"updated_at,omitempty"`
}

type PlatformInput struct {
	Platform       PlatformKind `json:"platform,omitempty"`
	Handle         string       `json:"handle,omitempty"`
	URL            string       `json:"url,omitempty"`
	FollowerCount  *int64       `json:"follower_count,omitempty"`
	EngagementRate *float64     `json:"engagement_rate,omitempty"`
	Verified       *bool        `json:"verified,omitempty"`
}
