// Package fleet manages the vehicles of drivers and transporters and a
// transporter's drivers.
package fleet
