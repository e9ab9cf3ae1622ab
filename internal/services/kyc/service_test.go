package kyc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vtruck/internal/api"
	"vtruck/internal/api/apitest"
	"vtruck/internal/domain"
	"vtruck/internal/services/kyc"
	"vtruck/internal/validate"
)

const phone = "9123456780"

func files(t *testing.T, keys ...domain.DocumentKey) map[domain.DocumentKey]domain.Document {
	t.Helper()
	dir := t.TempDir()
	out := make(map[domain.DocumentKey]domain.Document, len(keys))
	for _, k := range keys {
		p := filepath.Join(dir, string(k)+".jpg")
		require.NoError(t, os.WriteFile(p, []byte(k), 0o600))
		out[k] = domain.Document{Path: p}
	}
	return out
}

func TestCheck_Driver(t *testing.T) {
	err := kyc.Check(domain.RoleDriver, domain.KYCSubmission{
		Form:  domain.KYCForm{AadhaarNumber: "1234"},
		Files: files(t, domain.DocAadhaarFront),
	})
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.True(t, errs.Has("aadhaar_number"))
	assert.True(t, errs.Has("license_number"))
	assert.True(t, errs.Has("aadhaar_back"))
	assert.True(t, errs.Has("license_front"))
	assert.False(t, errs.Has("aadhaar_front"))
	assert.False(t, errs.Has("pan_number"))
}

func TestCheck_Business(t *testing.T) {
	sub := domain.KYCSubmission{
		Form: domain.KYCForm{
			AadhaarNumber: "123412341234", PANNumber: "ABCDE1234",
			CompanyName: "Acme Freight", CompanyAddress: "Indore",
		},
		Files: files(t, domain.DocAadhaarFront, domain.DocAadhaarBack, domain.DocPANFront, domain.DocPANBack, domain.DocBusinessDocument),
	}
	err := kyc.Check(domain.RoleShipper, sub)
	var errs validate.Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, validate.Errors{{Field: "pan_number", Message: "Invalid PAN format"}}, errs)

	sub.Form.PANNumber = "ABCDE1234F"
	assert.NoError(t, kyc.Check(domain.RoleShipper, sub))

	sub.Files[domain.DocBusinessDocument] = domain.Document{Path: filepath.Join(t.TempDir(), "gone.pdf")}
	require.Error(t, kyc.Check(domain.RoleTransporter, sub))
}

func TestSubmit(t *testing.T) {
	srv := apitest.New(t)
	tok := srv.AddUser(phone, "secret", domain.RoleDriver, domain.KYCNone)
	sessions := apitest.SessionFor(tok, domain.RoleDriver)
	svc := kyc.New(srv.NewClient(t, sessions), sessions, nil)
	ctx := context.Background()

	status, err := svc.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.NeedsSubmission())

	all := files(t, domain.DocAadhaarFront, domain.DocAadhaarBack, domain.DocLicenseFront, domain.DocLicenseBack, domain.DocPANFront)
	err = svc.Submit(ctx, domain.KYCSubmission{
		Form:  domain.KYCForm{AadhaarNumber: "1234 1234 1234", LicenseNumber: " MP0920200001 "},
		Files: all,
	})
	require.NoError(t, err)

	up, ok := srv.KYC(phone)
	require.True(t, ok)
	assert.Equal(t, "123412341234", up.Fields.Get("aadhaar_number"))
	assert.Equal(t, "MP0920200001", up.Fields.Get("license_number"))
	assert.Len(t, up.Files, 4)
	assert.NotContains(t, up.Files, "pan_front")

	status, err = svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.KYCPending, status)
	assert.Equal(t, "Pending", status.Label())
}

func TestSubmit_NoSession(t *testing.T) {
	srv := apitest.New(t)
	sessions := &apitest.MemorySessions{}
	svc := kyc.New(srv.NewClient(t, sessions), sessions, nil)
	assert.ErrorIs(t, svc.Submit(context.Background(), domain.KYCSubmission{}), api.ErrNoSession)
}
