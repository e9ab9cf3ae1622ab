package types

// DraftLoad is a load kept only on this device.
type DraftLoad struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Date   string `json:"date"`
	Type   string `json:"type"`
	Weight string `json:"weight"`
}
