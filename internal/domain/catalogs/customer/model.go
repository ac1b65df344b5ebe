// Package customer provides the customer catalog.
// Customers are identified by name (case-insensitive) at the issue counter
// and carry a single advance-deposit pool shared across all their sites.
package customer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/apperror"
	"github.com/Juman-Kalita/Slab/internal/core/entity"
	"github.com/Juman-Kalita/Slab/internal/core/types"
)

var phoneRE = regexp.MustCompile(`^[0-9+\-\s]{6,15}$`)

// Customer represents a rental customer.
type Customer struct {
	entity.Catalog

	// RegistrationName is the official registered name, if different
	RegistrationName *string `db:"registration_name" json:"registrationName,omitempty"`

	// ContactNo is the primary phone number
	ContactNo *string `db:"contact_no" json:"contactNo,omitempty"`

	// AadharPhoto is the identity document scan (stored compressed)
	AadharPhoto []byte `db:"aadhar_photo" json:"-"`

	// Address is the customer's address
	Address *string `db:"address" json:"address,omitempty"`

	// Referral records who referred this customer
	Referral *string `db:"referral" json:"referral,omitempty"`

	// AdvanceDeposit is the customer-level pool of unapplied money.
	// Overpayments land here and are drawn down on the next issue or payment.
	AdvanceDeposit types.Money `db:"advance_deposit" json:"advanceDeposit"`

	// CreatedAt is when the customer was first registered
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// New creates a new Customer with the given display name.
func New(name string) *Customer {
	return &Customer{
		Catalog:        entity.NewCatalog("", strings.TrimSpace(name)),
		AdvanceDeposit: types.Zero(),
		CreatedAt:      time.Now().UTC(),
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.ContactNo != nil && *c.ContactNo != "" && !phoneRE.MatchString(*c.ContactNo) {
		return apperror.NewValidation("invalid contact number").
			WithDetail("field", "contactNo")
	}

	if c.AdvanceDeposit.IsNegative() {
		return apperror.NewValidation("advance deposit cannot be negative").
			WithDetail("field", "advanceDeposit")
	}

	return nil
}

// NormalizeName returns the canonical form used for case-insensitive lookup.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Details holds optional registration metadata captured at the counter.
type Details struct {
	RegistrationName string
	ContactNo        string
	AadharPhoto      []byte
	Address          string
	Referral         string
}

// ApplyDetails fills in metadata fields that are currently empty.
// Existing values are never overwritten: the counter form resubmits details
// on every issue and must not clobber earlier registration data.
func (c *Customer) ApplyDetails(d Details) bool {
	changed := false
	set := func(dst **string, v string) {
		if v != "" && (*dst == nil || **dst == "") {
			s := v
			*dst = &s
			changed = true
		}
	}
	set(&c.RegistrationName, d.RegistrationName)
	set(&c.ContactNo, d.ContactNo)
	set(&c.Address, d.Address)
	set(&c.Referral, d.Referral)
	if len(d.AadharPhoto) > 0 && len(c.AadharPhoto) == 0 {
		c.AadharPhoto = d.AadharPhoto
		changed = true
	}
	return changed
}
