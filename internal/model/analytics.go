package model

import (
	"time"
)

// KPIResponse aggregates headline numbers for the dashboard.
type KPIResponse struct {
	TotalRevenue       string    `json:"total_revenue"` // decimal serialized as string
	DeliveredOrders    int       `json:"delivered_orders"`
	OpenOrders         int       `json:"open_orders"`
	CancelledOrders    int       `json:"cancelled_orders"`
	UniqueCustomers    int       `json:"unique_customers"`
	TimeRangeStartDate time.Time `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time `json:"time_range_end_date"`
}

// SalesPoint is one day bucket of the sales chart.
type SalesPoint struct {
	Day        time.Time `json:"day"`
	OrderCount int       `json:"order_count"`
	Revenue    string    `json:"revenue"`
}

// ProductRanking represents a ranked product based on accumulated quantities
type ProductRanking struct {
	ProductID     string `json:"product_id"`
	ProductTitle  string `json:"product_title"`
	ProductSKU    string `json:"product_sku"`
	TotalQuantity int    `json:"total_quantity"`
	TotalValue    string `json:"total_value"`
}

// CustomerRanking represents a ranked customer by order value.
type CustomerRanking struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	OrderCount   int    `json:"order_count"`
	TotalValue   string `json:"total_value"`
}
