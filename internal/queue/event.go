// Package queue defines message payloads exchanged over the message broker.
package queue

// OrderPaidEvent is published when a checkout commits. It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database. Amounts are in
// cents.
type OrderPaidEvent struct {
    CartID          uint64  `json:"cart_id"`
    ClientID        uint64  `json:"client_id"`
    TotalCents      int64   `json:"total_cents"`
    DiscountPercent float64 `json:"discount_percent"`
    ChargedCents    int64   `json:"charged_cents"`
    Items           int     `json:"items"`
    PaidAt          string  `json:"paid_at"`
}
