// Package loads is the shipper side of the marketplace: posting loads,
// listing them with their bids and accepting a bid.
package loads
