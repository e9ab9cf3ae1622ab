package api

import (
	"context"
	"net/http"

	"vtruck/internal/domain"
)

// SubmitKYC uploads identity documents. Files absent from the submission are
// skipped.
func (c *HTTPClient) SubmitKYC(ctx context.Context, sub domain.KYCSubmission) error {
	f := sub.Form
	fields := []formField{
		{"aadhaar_number", f.AadhaarNumber},
		{"pan_number", f.PANNumber},
		{"license_number", f.LicenseNumber},
		{"company_name", f.CompanyName},
		{"company_address", f.CompanyAddress},
	}
	var files []formFile
	for _, key := range domain.DocumentKeys {
		if doc, ok := sub.Files[key]; ok && !doc.IsZero() {
			files = append(files, formFile{field: string(key), doc: doc})
		}
	}
	b, err := multipartBody(fields, files)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{method: http.MethodPost, route: "/kyc/submit", path: "/kyc/submit", auth: authBearer, body: b})
	return err
}
