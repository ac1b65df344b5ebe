package dto

import (
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
)

// CustomerResponse is the customer catalog view.
// The Aadhaar photo is excluded; it is large and only needed on the
// registration screen.
type CustomerResponse struct {
	ID               string      `json:"id"`
	Code             string      `json:"code"`
	Name             string      `json:"name"`
	RegistrationName *string     `json:"registrationName,omitempty"`
	ContactNo        *string     `json:"contactNo,omitempty"`
	Address          *string     `json:"address,omitempty"`
	Referral         *string     `json:"referral,omitempty"`
	AdvanceDeposit   types.Money `json:"advanceDeposit"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// FromCustomer maps a customer catalog entity.
func FromCustomer(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID.String(),
		Code:             c.Code,
		Name:             c.Name,
		RegistrationName: c.RegistrationName,
		ContactNo:        c.ContactNo,
		Address:          c.Address,
		Referral:         c.Referral,
		AdvanceDeposit:   c.AdvanceDeposit,
		CreatedAt:        c.CreatedAt,
	}
}
