package kyc

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"vtruck/internal/api"
	"vtruck/internal/domain"
	"vtruck/internal/validate"
)

// Backend is the part of the API the KYC service calls.
type Backend interface {
	Me(ctx context.Context) (domain.Profile, error)
	domain.KYCAPI
}

// Service reports and submits identity verification.
type Service struct {
	api      Backend
	sessions domain.SessionStore
	log      *zap.Logger
}

// New constructs a KYC Service.
func New(api Backend, sessions domain.SessionStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: api, sessions: sessions, log: log.Named("kyc")}
}

// Requirements lists what a role must provide.
type Requirements struct {
	Fields    []string
	Documents []domain.DocumentKey
}

// Required returns the fields and documents role must submit.
func Required(role domain.Role) Requirements {
	if role == domain.RoleDriver {
		return Requirements{
			Fields:    []string{"aadhaar_number", "license_number"},
			Documents: []domain.DocumentKey{domain.DocAadhaarFront, domain.DocAadhaarBack, domain.DocLicenseFront, domain.DocLicenseBack},
		}
	}
	return Requirements{
		Fields: []string{"aadhaar_number", "pan_number", "company_name", "company_address"},
		Documents: []domain.DocumentKey{
			domain.DocAadhaarFront, domain.DocAadhaarBack,
			domain.DocPANFront, domain.DocPANBack,
			domain.DocBusinessDocument,
		},
	}
}

// Normalise trims every field and upper-cases the PAN.
func Normalise(f domain.KYCForm) domain.KYCForm {
	return domain.KYCForm{
		AadhaarNumber:  strings.ReplaceAll(strings.TrimSpace(f.AadhaarNumber), " ", ""),
		PANNumber:      strings.ToUpper(strings.TrimSpace(f.PANNumber)),
		LicenseNumber:  strings.TrimSpace(f.LicenseNumber),
		CompanyName:    strings.TrimSpace(f.CompanyName),
		CompanyAddress: strings.TrimSpace(f.CompanyAddress),
	}
}

// Check validates sub for role: every required field and document present,
// a 12 digit Aadhaar number and, for non-drivers, a well-formed PAN.
// Document paths must name existing files.
func Check(role domain.Role, sub domain.KYCSubmission) error {
	req := Required(role)
	f := sub.Form
	values := map[string]string{
		"aadhaar_number":  f.AadhaarNumber,
		"pan_number":      f.PANNumber,
		"license_number":  f.LicenseNumber,
		"company_name":    f.CompanyName,
		"company_address": f.CompanyAddress,
	}

	var errs validate.Errors
	for _, field := range req.Fields {
		if values[field] == "" {
			errs.Add(field, "This field is required")
		}
	}
	if f.AadhaarNumber != "" && !validate.Aadhaar(f.AadhaarNumber) {
		errs.Add("aadhaar_number", "Must be a 12 digit Aadhaar number")
	}
	if role != domain.RoleDriver && f.PANNumber != "" && !validate.PAN(f.PANNumber) {
		errs.Add("pan_number", "Invalid PAN format")
	}
	for _, key := range req.Documents {
		doc, ok := sub.Files[key]
		if !ok || doc.IsZero() {
			errs.Add(string(key), "This document is required")
			continue
		}
		if fi, err := os.Stat(doc.Path); err != nil || fi.IsDir() {
			errs.Add(string(key), "File not found")
		}
	}
	return errs.Err()
}

// Status returns the account's verification status.
func (s *Service) Status(ctx context.Context) (domain.KYCStatus, error) {
	p, err := s.api.Me(ctx)
	if err != nil {
		return "", fmt.Errorf("kyc status: %w", err)
	}
	return p.KYC(), nil
}

// Submit checks sub against the signed-in role and uploads it. Only the
// documents the role needs are sent.
func (s *Service) Submit(ctx context.Context, sub domain.KYCSubmission) error {
	sess, ok, err := s.sessions.LoadSession()
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok || !sess.Valid() {
		return api.ErrNoSession
	}

	sub.Form = Normalise(sub.Form)
	if err := Check(sess.Role, sub); err != nil {
		return err
	}
	files := make(map[domain.DocumentKey]domain.Document)
	for _, key := range Required(sess.Role).Documents {
		files[key] = sub.Files[key]
	}
	sub.Files = files

	if err := s.api.SubmitKYC(ctx, sub); err != nil {
		return fmt.Errorf("submit kyc: %w", err)
	}
	s.log.Info("kyc submitted", zap.String("role", sess.Role.String()))
	return nil
}

// Compile-time assertion that Service implements domain.KYCService.
var _ domain.KYCService = (*Service)(nil)
