// Package market is the driver and transporter side of the marketplace:
// finding loads near a vehicle, bidding on them and searching for lorries.
package market
