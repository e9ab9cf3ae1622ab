// Package commands defines the vtruck CLI and wires dependencies for subcommands.
//
// Commands
//
//   - login, otp verify|send, signup, logout
//     Authenticate against the marketplace
//   - whoami, status, settings            Show the account and app configuration
//   - lang list|set                       Choose the display language
//   - load post|list|show|bids|accept|watch
//     Shipper loads and the bids placed on them
//   - find nearby|lorry|mine, bid         Work for drivers and transporters
//   - vehicle ..., driver ...             Fleet management
//   - kyc status|submit                   Identity verification
//   - draft add|list|edit|delete          Loads kept on this device
//   - places search|geocode               Google Places lookups
//
// # Implementation
//
// The root command loads the configuration and builds the dependency graph
// (stores, backend clients, services) before any subcommand runs. Output and
// error messages go through the i18n printer for the resolved language.
package commands
