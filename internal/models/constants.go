package models

type OrderStatus string

const (
	OrderStatusPlaced          OrderStatus = "PLACED"
	OrderStatusShippingOnTime  OrderStatus = "SHIPPING_ON_TIME"
	OrderStatusShippingDelayed OrderStatus = "SHIPPING_DELAYED"
	OrderStatusArrived         OrderStatus = "ARRIVED"
	OrderStatusLost            OrderStatus = "LOST"
	OrderStatusDamaged         OrderStatus = "DAMAGED"
	OrderStatusUndeliverable   OrderStatus = "UNDELIVERABLE"
	OrderStatusReturnToSender  OrderStatus = "RETURN_TO_SENDER"
)

// AllOrderStatuses is ordered: active statuses first, then terminals.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusShippingOnTime,
	OrderStatusShippingDelayed,
	OrderStatusArrived,
	OrderStatusLost,
	OrderStatusDamaged,
	OrderStatusUndeliverable,
	OrderStatusReturnToSender,
}

// IssueStatuses are the terminal failure modes a shipment can end in.
var IssueStatuses = []OrderStatus{
	OrderStatusLost,
	OrderStatusDamaged,
	OrderStatusUndeliverable,
	OrderStatusReturnToSender,
}

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusArrived, OrderStatusLost, OrderStatusDamaged,
		OrderStatusUndeliverable, OrderStatusReturnToSender:
		return true
	}
	return false
}

func (s OrderStatus) IsIssue() bool {
	switch s {
	case OrderStatusLost, OrderStatusDamaged, OrderStatusUndeliverable, OrderStatusReturnToSender:
		return true
	}
	return false
}

const (
	VendorCategoryArtisan  = "artisan"
	VendorCategoryFlorist  = "florist"
	VendorCategoryGourmet  = "gourmet"
	VendorCategoryBoutique = "boutique"
	VendorCategoryKeepsake = "keepsake"
)

var VendorCategories = []string{
	VendorCategoryArtisan,
	VendorCategoryFlorist,
	VendorCategoryGourmet,
	VendorCategoryBoutique,
	VendorCategoryKeepsake,
}

// Reliability score thresholds applied by the report aggregator.
const (
	AtRiskScoreThreshold       = 85
	UnderperformScoreThreshold = 80
	TopVendorCount             = 5
)

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)
