// Package kyc checks and uploads identity documents. Drivers verify with
// Aadhaar and a driving licence; shippers and transporters with Aadhaar,
// PAN and a business document.
package kyc
