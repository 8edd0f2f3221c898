// Package authz is the single authorization policy for the whole API.
// Route middleware asks Can(role, action, resource) and handlers trust
// the verdict; no handler re-queries roles on its own.
package authz

// Actions.
const (
	ActionRead     = "read"
	ActionWrite    = "write"
	ActionDelete   = "delete"
	ActionTransit  = "transition" // advance a lifecycle status
	ActionOverride = "override"   // set an arbitrary status, bypassing the graph
)

// Resources.
const (
	ResourceUser      = "users"
	ResourceCustomer  = "customers"
	ResourceSupplier  = "suppliers"
	ResourceProduct   = "products"
	ResourceOrder     = "orders"
	ResourcePurchase  = "purchase_orders"
	ResourceReceipt   = "goods_receipts"
	ResourceInventory = "inventory"
	ResourceWishlist  = "wishlist"
	ResourceCart      = "purchase_cart"
	ResourceInvoice   = "invoices"
	ResourceDelivery  = "deliveries"
	ResourceAnalytics = "analytics"
	ResourceAudit     = "audit"
)

type rule struct {
	action   string
	resource string
}

// policy maps role -> allowed (action, resource) pairs. The owner is not
// listed: it passes every check.
var policy = map[string][]rule{
	"agent": {
		{ActionRead, ResourceCustomer}, {ActionWrite, ResourceCustomer},
		{ActionRead, ResourceProduct},
		{ActionRead, ResourceInventory},
		{ActionRead, ResourceOrder}, {ActionWrite, ResourceOrder}, {ActionDelete, ResourceOrder},
		{ActionRead, ResourceWishlist}, {ActionWrite, ResourceWishlist},
	},
	"manager": {
		{ActionRead, ResourceCustomer},
		{ActionRead, ResourceSupplier}, {ActionWrite, ResourceSupplier},
		{ActionRead, ResourceProduct}, {ActionWrite, ResourceProduct},
		{ActionRead, ResourceInventory}, {ActionDelete, ResourceInventory},
		{ActionRead, ResourceOrder}, {ActionOverride, ResourceOrder},
		{ActionRead, ResourcePurchase}, {ActionWrite, ResourcePurchase}, {ActionTransit, ResourcePurchase},
		{ActionRead, ResourceReceipt}, {ActionWrite, ResourceReceipt},
		{ActionRead, ResourceWishlist}, {ActionWrite, ResourceWishlist},
		{ActionRead, ResourceCart}, {ActionWrite, ResourceCart},
		{ActionRead, ResourceAnalytics},
	},
	"warehouse": {
		{ActionRead, ResourceProduct},
		{ActionRead, ResourceInventory},
		{ActionRead, ResourceOrder}, {ActionTransit, ResourceOrder},
		{ActionRead, ResourcePurchase}, {ActionTransit, ResourcePurchase},
		{ActionRead, ResourceReceipt}, {ActionWrite, ResourceReceipt},
	},
	"driver": {
		{ActionRead, ResourceOrder},
		{ActionWrite, ResourceDelivery},
	},
	"accountant": {
		{ActionRead, ResourceOrder},
		{ActionRead, ResourceCustomer},
		{ActionRead, ResourceInvoice}, {ActionWrite, ResourceInvoice},
		{ActionRead, ResourceAnalytics},
	},
}

// Can reports whether role may perform action on resource.
func Can(role, action, resource string) bool {
	if role == "owner" {
		return true
	}
	for _, r := range policy[role] {
		if r.action == action && r.resource == resource {
			return true
		}
	}
	return false
}
