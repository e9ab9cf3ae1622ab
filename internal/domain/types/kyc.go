package types

// KYCStatus is the verification state of an account's identity documents.
type KYCStatus string

const (
	KYCNone     KYCStatus = ""
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

// Label returns the user-facing badge for the status.
func (s KYCStatus) Label() string {
	switch s {
	case KYCVerified:
		return "Verified"
	case KYCPending:
		return "Pending"
	default:
		return "Unverified"
	}
}

// NeedsSubmission reports whether the user should be prompted to submit documents.
func (s KYCStatus) NeedsSubmission() bool { return s == KYCNone || s == KYCRejected }

// DocumentKey names a KYC document upload field.
type DocumentKey string

const (
	DocAadhaarFront     DocumentKey = "aadhaar_front"
	DocAadhaarBack      DocumentKey = "aadhaar_back"
	DocPANFront         DocumentKey = "pan_front"
	DocPANBack          DocumentKey = "pan_back"
	DocLicenseFront     DocumentKey = "license_front"
	DocLicenseBack      DocumentKey = "license_back"
	DocBusinessDocument DocumentKey = "business_document"
)

// DocumentKeys lists every upload field in submission order.
var DocumentKeys = []DocumentKey{
	DocAadhaarFront, DocAadhaarBack,
	DocPANFront, DocPANBack,
	DocLicenseFront, DocLicenseBack,
	DocBusinessDocument,
}

// Document is a local file to upload.
type Document struct {
	Path        string `json:"path"`
	Name        string `json:"name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// IsZero reports whether no file was chosen.
func (d Document) IsZero() bool { return d.Path == "" }

// KYCForm holds the text fields of a KYC submission.
type KYCForm struct {
	AadhaarNumber  string `json:"aadhaar_number"`
	PANNumber      string `json:"pan_number"`
	LicenseNumber  string `json:"license_number"`
	CompanyName    string `json:"company_name"`
	CompanyAddress string `json:"company_address"`
}

// KYCSubmission is a complete KYC upload.
type KYCSubmission struct {
	Form  KYCForm
	Files map[DocumentKey]Document
}
