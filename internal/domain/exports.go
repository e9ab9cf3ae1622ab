package domain

import (
	interfaces "vtruck/internal/domain/interfaces"
	types "vtruck/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Role            = types.Role
	ID              = types.ID
	Text            = types.Text
	Float           = types.Float
	Session         = types.Session
	Destination     = types.Destination
	LoginMode       = types.LoginMode
	LoginResult     = types.LoginResult
	User            = types.User
	Profile         = types.Profile
	AppSettings     = types.AppSettings
	Credentials     = types.Credentials
	OTPVerification = types.OTPVerification
	Registration    = types.Registration
	SignupForm      = types.SignupForm
	AuthToken       = types.AuthToken
	KYCStatus       = types.KYCStatus
	DocumentKey     = types.DocumentKey
	Document        = types.Document
	KYCForm         = types.KYCForm
	KYCSubmission   = types.KYCSubmission
	Point           = types.Point
	Place           = types.Place
	Country         = types.Country
	State           = types.State
	LoadStatus      = types.LoadStatus
	LoadType        = types.LoadType
	PriceType       = types.PriceType
	Load            = types.Load
	NewLoad         = types.NewLoad
	LoadForm        = types.LoadForm
	LoadFilter      = types.LoadFilter
	LoadOverview    = types.LoadOverview
	FindLoadsQuery  = types.FindLoadsQuery
	LorryQuery      = types.LorryQuery
	Lorry           = types.Lorry
	Bid             = types.Bid
	AcceptedBid     = types.AcceptedBid
	NewBid          = types.NewBid
	VehicleStatus   = types.VehicleStatus
	VehicleType     = types.VehicleType
	Route           = types.Route
	Vehicle         = types.Vehicle
	NewVehicle      = types.NewVehicle
	LocationUpdate  = types.LocationUpdate
	Driver          = types.Driver
	NewDriver       = types.NewDriver
	DraftLoad       = types.DraftLoad
	NearbyQuery     = types.NearbyQuery
	NearbyLoad      = types.NearbyLoad
	NearbyPage      = types.NearbyPage
	LorrySearch     = types.LorrySearch
)

// Constants re-exported from the types subpackage.
const (
	RoleShipper     = types.RoleShipper
	RoleDriver      = types.RoleDriver
	RoleTransporter = types.RoleTransporter

	DestLogin           = types.DestLogin
	DestShipperTabs     = types.DestShipperTabs
	DestTransporterTabs = types.DestTransporterTabs
	DestDriverHome      = types.DestDriverHome

	LoginAuto     = types.LoginAuto
	LoginPassword = types.LoginPassword
	LoginOTP      = types.LoginOTP

	PrefLanguage        = types.PrefLanguage
	PrefSelectedVehicle = types.PrefSelectedVehicle

	KYCNone     = types.KYCNone
	KYCPending  = types.KYCPending
	KYCVerified = types.KYCVerified
	KYCRejected = types.KYCRejected

	DocAadhaarFront     = types.DocAadhaarFront
	DocAadhaarBack      = types.DocAadhaarBack
	DocPANFront         = types.DocPANFront
	DocPANBack          = types.DocPANBack
	DocLicenseFront     = types.DocLicenseFront
	DocLicenseBack      = types.DocLicenseBack
	DocBusinessDocument = types.DocBusinessDocument

	LoadPending  = types.LoadPending
	LoadAssigned = types.LoadAssigned
	LoadAccepted = types.LoadAccepted
	LoadTypePost = types.LoadTypePost

	PriceFixed      = types.PriceFixed
	PriceNegotiable = types.PriceNegotiable

	DefaultVisibleHours = types.DefaultVisibleHours
	BidAccepted         = types.BidAccepted
	VehicleAvailable    = types.VehicleAvailable
	DefaultStateID      = types.DefaultStateID
)

// Variables and helpers re-exported from the types subpackage.
var (
	ErrUnknownRole    = types.ErrUnknownRole
	ErrCorruptStore   = types.ErrCorruptStore
	Roles             = types.Roles
	DocumentKeys      = types.DocumentKeys
	ParseRole         = types.ParseRole
	SummariseAccepted = types.SummariseAccepted
	HomeFor           = types.HomeFor
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	AuthAPI         = interfaces.AuthAPI
	CatalogAPI      = interfaces.CatalogAPI
	LoadAPI         = interfaces.LoadAPI
	VehicleAPI      = interfaces.VehicleAPI
	DriverAPI       = interfaces.DriverAPI
	KYCAPI          = interfaces.KYCAPI
	Backend         = interfaces.Backend
	Maps            = interfaces.Maps
	SessionStore    = interfaces.SessionStore
	DraftStore      = interfaces.DraftStore
	PreferenceStore = interfaces.PreferenceStore

	AuthService     = interfaces.AuthService
	SettingsService = interfaces.SettingsService
	LoadService     = interfaces.LoadService
	MarketService   = interfaces.MarketService
	FleetService    = interfaces.FleetService
	KYCService      = interfaces.KYCService
	DraftService    = interfaces.DraftService
)
