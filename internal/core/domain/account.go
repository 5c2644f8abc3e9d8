package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// Account models a registered marketplace user, buyer or seller.
type Account struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	PasswordHash   string    `json:"-"`
	Zip            string    `json:"zip,omitempty"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Role           Role      `json:"role"`
	Store          StoreInfo `json:"store"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StoreInfo is the seller-facing profile. Only meaningful when Role is RoleSeller.
type StoreInfo struct {
	OutletName          string  `json:"outletname,omitempty"`
	Pin                 string  `json:"pin,omitempty"`
	LegalEntity         string  `json:"legal_entity,omitempty"`
	Owner               string  `json:"owner,omitempty"`
	CardNumber          string  `json:"cc_number,omitempty"` // masked on output
	ContactName         string  `json:"contact_name,omitempty"`
	OutletAddress       string  `json:"outlet_add,omitempty"`
	GST                 string  `json:"gst,omitempty"`
	DeliveryRadius      string  `json:"delevery_radius,omitempty"`
	BillingAmountAnyDel float64 `json:"billing_amount_anydel,omitempty"`
	MinAmount           float64 `json:"min_amount,omitempty"`
	RegisteredAddress   string  `json:"reg_add,omitempty"`
}

// MarshalJSON renders the card number masked down to its last four digits.
func (s StoreInfo) MarshalJSON() ([]byte, error) {
	type plain StoreInfo
	out := plain(s)
	out.CardNumber = MaskCardNumber(s.CardNumber)
	return json.Marshal(out)
}

// MaskCardNumber replaces every character but the last four with '*'. Inputs
// of four characters or fewer are fully masked.
func MaskCardNumber(n string) string {
	r := []rune(n)
	if len(r) == 0 {
		return ""
	}
	keep := 4
	if len(r) <= keep {
		keep = 0
	}
	return strings.Repeat("*", len(r)-keep) + string(r[len(r)-keep:])
}

// StoreInfoPatch carries a partial store-info update. Nil fields keep the
// stored value.
type StoreInfoPatch struct {
	OutletName          *string
	Pin                 *string
	LegalEntity         *string
	Owner               *string
	CardNumber          *string
	ContactName         *string
	OutletAddress       *string
	GST                 *string
	DeliveryRadius      *string
	BillingAmountAnyDel *float64
	MinAmount           *float64
	RegisteredAddress   *string
}

// Apply merges the patch into s.
func (p StoreInfoPatch) Apply(s *StoreInfo) {
	setString(&s.OutletName, p.OutletName)
	setString(&s.Pin, p.Pin)
	setString(&s.LegalEntity, p.LegalEntity)
	setString(&s.Owner, p.Owner)
	setString(&s.CardNumber, p.CardNumber)
	setString(&s.ContactName, p.ContactName)
	setString(&s.OutletAddress, p.OutletAddress)
	setString(&s.GST, p.GST)
	setString(&s.DeliveryRadius, p.DeliveryRadius)
	if p.BillingAmountAnyDel != nil {
		s.BillingAmountAnyDel = *p.BillingAmountAnyDel
	}
	if p.MinAmount != nil {
		s.MinAmount = *p.MinAmount
	}
	setString(&s.RegisteredAddress, p.RegisteredAddress)
}

// Identity is the authenticated caller as established by the token verifier.
type Identity struct {
	AccountID string
	TokenID   string
	ExpiresAt time.Time
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
