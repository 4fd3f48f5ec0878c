package dialog

import "warungbot/app/client/backend"

// Kind names one multi-step workflow.
type Kind string

const (
	KindAddCustomer    Kind = "add_customer"
	KindEditCustomer   Kind = "edit_customer"
	KindDeleteCustomer Kind = "delete_customer"
	KindCreateOrder    Kind = "create_order"
	KindCancelOrder    Kind = "cancel_order"
)

// Step is a position inside a workflow's state table.
type Step string

const (
	StepAddName    Step = "add_name"
	StepAddAddress Step = "add_address"
	StepAddPhone   Step = "add_phone"

	StepEditConfirm Step = "edit_confirm"
	StepEditField   Step = "edit_field"
	StepEditValue   Step = "edit_value"

	StepDeleteConfirm Step = "delete_confirm"

	StepChooseMerchant Step = "choose_merchant"
	StepAddProducts    Step = "add_products"

	StepSelectOrder   Step = "select_order"
	StepCancelConfirm Step = "cancel_confirm"
)

// Session is the live state of one user's in-progress workflow. There is at
// most one per owner; all access happens under the owner's lock.
type Session struct {
	OwnerID int64
	Kind    Kind
	Step    Step
	Fields  Fields
}

// Fields holds the values captured so far by the active workflow.
type Fields struct {
	Name      string
	Address   string
	EditField string
	Customer  *backend.Customer

	Merchants  []backend.Merchant
	MerchantID string
	Products   []backend.Product
	Items      []backend.OrderLine

	PendingOrders []backend.Order
	CancelOrderID string
}
