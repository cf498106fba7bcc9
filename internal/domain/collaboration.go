package domain

import (
	"fmt"
	"time"
)

type CollaborationStatus string

const (
	CollabPending     CollaborationStatus = "pending"
	CollabNegotiating CollaborationStatus = "negotiating"
	CollabAccepted    CollaborationStatus = "accepted"
	CollabDeclined    CollaborationStatus = "declined"
	CollabCancelled   CollaborationStatus = "cancelled"
	CollabCompleted   CollaborationStatus = "completed"
)

var CollaborationStatuses = []CollaborationStatus{
	CollabPending, CollabNegotiating, CollabAccepted, CollabDeclined, CollabCancelled, CollabCompleted,
}

func (s CollaborationStatus) Valid() bool {
	for _, v := range CollaborationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type CollaborationType string

const (
	CollabFreeStay CollaborationType = "Free Stay"
	CollabPaid     CollaborationType = "Paid"
	CollabDiscount CollaborationType = "Discount"
)

type Deliverable struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	Status   string `json:"status"` // pending|completed
}

type PlatformDeliverables struct {
	Platform     string        `json:"platform"`
	Deliverables []Deliverable `json:"deliverables"`
}

type Collaboration struct {
	ID                    string              `json:"id"`
	InitiatorType         Role                `json:"initiator_type"`
	CreatorID             string              `json:"creator_id"`
	CreatorName           string              `json:"creator_name"`
	CreatorProfilePicture string              `json:"creator_profile_picture,omitempty"`
	HotelID               string              `json:"hotel_id"`
	HotelName             string              `json:"hotel_name"`
	ListingID             string              `json:"listing_id"`
	ListingName           string              `json:"listing_name"`
	ListingLocation       string              `json:"listing_location"`
	Status                CollaborationStatus `json:"status"`

	// Compensation fields are meaningful only for the matching CollaborationType.
	CollaborationType  *CollaborationType `json:"collaboration_type,omitempty"`
	PaidAmount         *float64           `json:"paid_amount,omitempty"`
	DiscountPercentage *float64           `json:"discount_percentage,omitempty"`
	FreeStayMinNights  *int               `json:"free_stay_min_nights,omitempty"`
	FreeStayMaxNights  *int               `json:"free_stay_max_nights,omitempty"`
	StayNights         *int               `json:"stay_nights,omitempty"`

	TravelDateFrom    string   `json:"travel_date_from,omitempty"`
	TravelDateTo      string   `json:"travel_date_to,omitempty"`
	PreferredDateFrom string   `json:"preferred_date_from,omitempty"`
	PreferredDateTo   string   `json:"preferred_date_to,omitempty"`
	PreferredMonths   []string `json:"preferred_months,omitempty"`

	PlatformDeliverables []PlatformDeliverables `json:"platform_deliverables"`

	WhyGreatFit string     `json:"why_great_fit,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

// Compensation renders the terms for the collaboration's own type only;
// fields belonging to other types are ignored.
func (c Collaboration) Compensation() string {
	if c.CollaborationType == nil {
		return "-"
	}
	switch *c.CollaborationType {
	case CollabPaid:
		return fmt.Sprintf("$%s Paid", trimFloat(deref(c.PaidAmount)))
	case CollabDiscount:
		return fmt.Sprintf("%s%% Discount", trimFloat(deref(c.DiscountPercentage)))
	case CollabFreeStay:
		n := 0
		switch {
		case c.StayNights != nil:
			n = *c.StayNights
		case c.FreeStayMinNights != nil:
			n = *c.FreeStayMinNights
		}
		if c.StayNights == nil && c.FreeStayMinNights != nil && c.FreeStayMaxNights != nil &&
			*c.FreeStayMaxNights != *c.FreeStayMinNights {
			return fmt.Sprintf("%d-%d Nights Free Stay", *c.FreeStayMinNights, *c.FreeStayMaxNights)
		}
		return fmt.Sprintf("%d Nights Free Stay", n)
	}
	return string(*c.CollaborationType)
}

// Dates returns the travel window, the preferred window, or the preferred months.
func (c Collaboration) Dates() string {
	switch {
	case c.TravelDateFrom != "" || c.TravelDateTo != "":
		return c.TravelDateFrom + " - " + c.TravelDateTo
	case c.PreferredDateFrom != "" || c.PreferredDateTo != "":
		return c.PreferredDateFrom + " - " + c.PreferredDateTo
	case len(c.PreferredMonths) > 0:
		return fmt.Sprint(c.PreferredMonths)
	}
	return "-"
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
