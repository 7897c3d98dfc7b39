package models

// Receipt is a store receipt produced by the purchase provider. It is only
// forwarded to the backend, which decides what it is worth.
type Receipt struct {
	ProductID     string `json:"productId"`
	TransactionID string `json:"transactionId"`
	Payload       string `json:"payload"`
}
