// Package drafts keeps a list of loads on this device, newest first.
package drafts
