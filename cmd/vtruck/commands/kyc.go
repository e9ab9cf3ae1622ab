package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"vtruck/internal/domain"
)

func (c *cli) kycCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "kyc", Short: "Identity verification"}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the verification status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.wire.KYC.Status(cmd.Context())
			if err != nil {
				return err
			}
			c.say("kyc.status", c.p.T(kycKey(s)))
			switch {
			case s == domain.KYCPending:
				c.say("kyc.under_review")
			case s.NeedsSubmission():
				c.say("kyc.submit_hint")
			}
			return nil
		},
	}

	var (
		form domain.KYCForm
		docs map[string]string
	)
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Upload identity documents",
		Long: "Upload identity documents. Drivers send Aadhaar and licence; shippers and\n" +
			"transporters send Aadhaar, PAN, company details and a business document.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub := domain.KYCSubmission{Form: form, Files: map[domain.DocumentKey]domain.Document{}}
			for k, p := range docs {
				key := domain.DocumentKey(k)
				if !slices.Contains(domain.DocumentKeys, key) {
					return fmt.Errorf("unknown document %q", k)
				}
				sub.Files[key] = domain.Document{Path: p}
			}
			if err := c.wire.KYC.Submit(cmd.Context(), sub); err != nil {
				return err
			}
			c.say("kyc.submitted")
			return nil
		},
	}
	submit.Flags().StringVar(&form.AadhaarNumber, "aadhaar", "", "12 digit Aadhaar number")
	submit.Flags().StringVar(&form.PANNumber, "pan", "", "PAN")
	submit.Flags().StringVar(&form.LicenseNumber, "license", "", "driving licence number")
	submit.Flags().StringVar(&form.CompanyName, "company", "", "company name")
	submit.Flags().StringVar(&form.CompanyAddress, "company-address", "", "company address")
	submit.Flags().StringToStringVar(&docs, "doc", nil, "document=path, e.g. aadhaar_front=front.jpg (repeatable)")

	cmd.AddCommand(status, submit)
	return cmd
}
