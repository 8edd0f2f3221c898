package authz

import "testing"

func TestOwnerPassesEverything(t *testing.T) {
	checks := []struct{ action, resource string }{
		{ActionRead, ResourceAudit},
		{ActionWrite, ResourceUser},
		{ActionDelete, ResourceInventory},
		{ActionOverride, ResourceOrder},
		{ActionWrite, "anything"},
	}
	for _, c := range checks {
		if !Can("owner", c.action, c.resource) {
			t.Errorf("owner should be allowed %s on %s", c.action, c.resource)
		}
	}
}

func TestRolePolicy(t *testing.T) {
	tests := []struct {
		role     string
		action   string
		resource string
		want     bool
	}{
		// Agents sell: customers, orders, wishlist.
		{"agent", ActionWrite, ResourceOrder, true},
		{"agent", ActionDelete, ResourceOrder, true},
		{"agent", ActionWrite, ResourceCustomer, true},
		{"agent", ActionWrite, ResourceWishlist, true},
		{"agent", ActionRead, ResourceInventory, true},
		{"agent", ActionWrite, ResourceProduct, false},
		{"agent", ActionWrite, ResourcePurchase, false},
		{"agent", ActionOverride, ResourceOrder, false},
		{"agent", ActionRead, ResourceAudit, false},

		// Managers buy and oversee, but do not advance warehouse statuses.
		{"manager", ActionWrite, ResourcePurchase, true},
		{"manager", ActionTransit, ResourcePurchase, true},
		{"manager", ActionOverride, ResourceOrder, true},
		{"manager", ActionWrite, ResourceCart, true},
		{"manager", ActionWrite, ResourceProduct, true},
		{"manager", ActionDelete, ResourceInventory, true},
		{"manager", ActionRead, ResourceAnalytics, true},
		{"manager", ActionTransit, ResourceOrder, false},
		{"manager", ActionWrite, ResourceUser, false},
		{"manager", ActionWrite, ResourceInvoice, false},

		// Warehouse advances orders and receives goods.
		{"warehouse", ActionTransit, ResourceOrder, true},
		{"warehouse", ActionWrite, ResourceReceipt, true},
		{"warehouse", ActionTransit, ResourcePurchase, true},
		{"warehouse", ActionOverride, ResourceOrder, false},
		{"warehouse", ActionWrite, ResourceOrder, false},
		{"warehouse", ActionRead, ResourceAnalytics, false},

		// Drivers confirm deliveries and nothing else.
		{"driver", ActionWrite, ResourceDelivery, true},
		{"driver", ActionRead, ResourceOrder, true},
		{"driver", ActionTransit, ResourceOrder, false},
		{"driver", ActionRead, ResourceInventory, false},

		// Accountants invoice delivered orders.
		{"accountant", ActionWrite, ResourceInvoice, true},
		{"accountant", ActionRead, ResourceAnalytics, true},
		{"accountant", ActionWrite, ResourceOrder, false},
		{"accountant", ActionWrite, ResourceDelivery, false},

		// Unknown roles get nothing.
		{"intern", ActionRead, ResourceOrder, false},
		{"", ActionRead, ResourceOrder, false},
	}

	for _, tc := range tests {
		if got := Can(tc.role, tc.action, tc.resource); got != tc.want {
			t.Errorf("Can(%q, %q, %q) = %v, want %v", tc.role, tc.action, tc.resource, got, tc.want)
		}
	}
}
