// Package settings fetches the remote application settings once per process.
package settings
