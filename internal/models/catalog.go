package models

// Country is a market the platform operates in
type Country struct {
	ID       int64      `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	Code     string     `json:"code" db:"code"` // ISO code, unique
	Currency string     `json:"currency" db:"currency"`
	Flag     NullString `json:"flag" db:"flag"` // emoji or url
}

// City belongs to exactly one country
type City struct {
	ID        int64  `json:"id" db:"id"`
	CountryID int64  `json:"countryId" db:"country_id"`
	Name      string `json:"name" db:"name"`
}

// DefaultCommissionRate is the commission percentage applied when none is given
const DefaultCommissionRate = 10

// Service is a bookable service category with localized labels
type Service struct {
	ID             int64  `json:"id" db:"id"`
	NameEn         string `json:"nameEn" db:"name_en"`
	NameFr         string `json:"nameFr" db:"name_fr"`
	NameAr         string `json:"nameAr" db:"name_ar"`
	Icon           string `json:"icon" db:"icon"`
	Slug           string `json:"slug" db:"slug"` // unique
	CommissionRate int    `json:"commissionRate" db:"commission_rate"`
}

// Review is a rating left for a booking. The table exists but no endpoint reads or writes it.
type Review struct {
	ID        int64      `json:"id" db:"id"`
	BookingID int64      `json:"bookingId" db:"booking_id"`
	Rating    int        `json:"rating" db:"rating"`
	Comment   NullString `json:"comment" db:"comment"`
}
