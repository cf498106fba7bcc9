package domain

import "time"

// Read-only public projections served by /marketplace/*.

type MarketplaceListing struct {
	ID                     string                  `json:"id"`
	HotelProfileID         string                  `json:"hotel_profile_id"`
	HotelName              string                  `json:"hotel_name"`
	HotelPicture           *string                 `json:"hotel_picture"`
	Name                   string                  `json:"name"`
	Location               string                  `json:"location"`
	Description            string                  `json:"description"`
	AccommodationType      *string                 `json:"accommodation_type"`
	Images                 []string                `json:"images"`
	Status                 string                  `json:"status"`
	CollaborationOfferings []CollaborationOffering `json:"collaboration_offerings"`
	CreatorRequirements    *CreatorRequirements    `json:"creator_requirements"`
	CreatedAt              time.Time               `json:"created_at"`
}

type CollaborationOffering struct {
	ID                 string            `json:"id"`
	ListingID          string            `json:"listing_id"`
	CollaborationType  CollaborationType `json:"collaboration_type"`
	AvailabilityMonths []string          `json:"availability_months"`
	Platforms          []string          `json:"platforms"`
	FreeStayMinNights  *int              `json:"free_stay_min_nights"`
	FreeStayMaxNights  *int              `json:"free_stay_max_nights"`
	PaidMaxAmount      *float64          `json:"paid_max_amount"`
	DiscountPercentage *float64          `json:"discount_percentage"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type CreatorRequirements struct {
	ID              string    `json:"id"`
	ListingID       string    `json:"listing_id"`
	Platforms       []string  `json:"platforms"`
	MinFollowers    *int64    `json:"min_followers"`
	TargetCountries []string  `json:"target_countries"`
	TargetAgeMin    *int      `json:"target_age_min"`
	TargetAgeMax    *int      `json:"target_age_max"`
	TargetAgeGroups []string  `json:"target_age_groups"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type MarketplaceCreator struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Location         string            `json:"location"`
	ShortDescription string            `json:"short_description"`
	PortfolioLink    *string           `json:"portfolio_link"`
	ProfilePicture   *string           `json:"profile_picture"`
	Platforms        []CreatorPlatform `json:"platforms"`
	AudienceSize     int64             `json:"audience_size"`
	AverageRating    float64           `json:"average_rating"`
	TotalReviews     int               `json:"total_reviews"`
	CreatedAt        time.Time         `json:"created_at"`
}

type CreatorPlatform struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Handle         string         `json:"handle"`
	Followers      int64          `json:"followers"`
	EngagementRate float64        `json:"engagement_rate"`
	TopCountries   []CountryShare `json:"top_countries"`
	TopAgeGroups   []AgeShare     `json:"top_age_groups"`
	GenderSplit    *GenderSplit   `json:"gender_split"`
}

type CountryShare struct {
	Country    string  `json:"country"`
	Percentage float64 `json:"percentage"`
}

type AgeShare struct {
	AgeRange   string  `json:"ageRange"`
	Percentage float64 `json:"percentage"`
}

type GenderSplit struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
}
