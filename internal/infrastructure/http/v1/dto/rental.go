package dto

import (
	"time"

	"github.com/Juman-Kalita/Slab/internal/core/types"
	"github.com/Juman-Kalita/Slab/internal/domain/catalogs/customer"
	"github.com/Juman-Kalita/Slab/internal/domain/rental"
)

// IssueItemRequest is one material line of an issue.
type IssueItemRequest struct {
	MaterialTypeID string         `json:"materialTypeId" binding:"required"`
	Quantity       types.Quantity `json:"quantity" binding:"required"`
	HasOwnLabor    bool           `json:"hasOwnLabor"`

	// LoadingCharge overrides the catalog charge for this line when set
	LoadingCharge *types.Money `json:"loadingCharge,omitempty"`
}

// CustomerDetailsRequest carries optional registration metadata.
type CustomerDetailsRequest struct {
	RegistrationName string `json:"registrationName"`
	ContactNo        string `json:"contactNo"`
	AadharPhoto      []byte `json:"aadharPhoto,omitempty"`
	Address          string `json:"address"`
	Referral         string `json:"referral"`
}

// IssueRequest is one dispatch of materials to a customer site.
type IssueRequest struct {
	CustomerName string             `json:"customerName" binding:"required"`
	SiteName     string             `json:"siteName" binding:"required"`
	Location     string             `json:"location" binding:"required"`
	Items        []IssueItemRequest `json:"items" binding:"required,min=1"`
	IssueDate    time.Time          `json:"issueDate" binding:"required"`

	DepositAmount   types.Money            `json:"depositAmount"`
	CustomerDetails CustomerDetailsRequest `json:"customerDetails"`

	VehicleNo string `json:"vehicleNo"`
	ChallanNo string `json:"challanNo"`
}

// ToServiceRequest converts to the domain request.
func (r IssueRequest) ToServiceRequest() rental.IssueRequest {
	items := make([]rental.IssueItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = rental.IssueItem{
			MaterialTypeID:        item.MaterialTypeID,
			Quantity:              item.Quantity,
			HasOwnLabor:           item.HasOwnLabor,
			LoadingChargeOverride: item.LoadingCharge,
		}
	}
	return rental.IssueRequest{
		CustomerName:  r.CustomerName,
		SiteName:      r.SiteName,
		Location:      r.Location,
		Items:         items,
		IssueDate:     r.IssueDate,
		DepositAmount: r.DepositAmount,
		CustomerDetails: customer.Details{
			RegistrationName: r.CustomerDetails.RegistrationName,
			ContactNo:        r.CustomerDetails.ContactNo,
			AadharPhoto:      r.CustomerDetails.AadharPhoto,
			Address:          r.CustomerDetails.Address,
			Referral:         r.CustomerDetails.Referral,
		},
		VehicleNo: r.VehicleNo,
		ChallanNo: r.ChallanNo,
	}
}

// ReturnRequest records returned and lost quantities for one material.
type ReturnRequest struct {
	CustomerID     string `json:"customerId" binding:"required"`
	SiteID         string `json:"siteId" binding:"required"`
	MaterialTypeID string `json:"materialTypeId" binding:"required"`

	QuantityReturned types.Quantity `json:"quantityReturned"`
	QuantityLost     types.Quantity `json:"quantityLost"`
	HasOwnLabor      bool           `json:"hasOwnLabor"`

	ReturnDate time.Time `json:"returnDate" binding:"required"`
}

// PaymentRequest applies a payment to a site.
type PaymentRequest struct {
	CustomerID string      `json:"customerId" binding:"required"`
	SiteID     string      `json:"siteId" binding:"required"`
	Amount     types.Money `json:"amount"`

	PaymentMethod string `json:"paymentMethod"`

	// PaymentDate allows backdating the receipt; empty means now
	PaymentDate *time.Time `json:"paymentDate,omitempty"`
}
