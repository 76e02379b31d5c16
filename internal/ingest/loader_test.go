package ingest_test

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rosterlens.app/engine/internal/ingest"
)

var _ = Describe("LoadCSV", func() {
	ctx := context.Background()

	It("loads a roster with canonical headers", func() {
		csv := strings.Join([]string{
			"provider_id,full_name,specialty,practice_state,phone,npi,license_number,license_state,license_expiration_date",
			"P1,Jane Smith,Cardiology,NY,(212) 555-0100,1234567893,NY-12345,NY,2026-01-31",
			"P2,Bob Jones,Oncology,CA,415-555-0200,9876543213,CA-777,CA,2025-12-01",
		}, "\n")

		recs, err := ingest.LoadCSV(ctx, strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(2))
		Expect(recs[0].ProviderID).To(Equal("P1"))
		Expect(recs[0].FullName).To(Equal("Jane Smith"))
		Expect(recs[0].State).To(Equal("NY"))
		Expect(recs[0].LicenseExpiry).To(Equal("2026-01-31"))
	})

	It("maps header synonyms onto the canonical schema", func() {
		csv := strings.Join([]string{
			"prv_id,provider_name,taxonomy,state,telephone,npi_number,lic_no,issuing_state,exp_date",
			"P1,Jane Smith,Cardiology,NY,2125550100,1234567893,NY-12345,NY,2026-01-31",
		}, "\n")

		recs, err := ingest.LoadCSV(ctx, strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].ProviderID).To(Equal("P1"))
		Expect(recs[0].FullName).To(Equal("Jane Smith"))
		Expect(recs[0].Specialty).To(Equal("Cardiology"))
		Expect(recs[0].Phone).To(Equal("2125550100"))
		Expect(recs[0].NPI).To(Equal("1234567893"))
		Expect(recs[0].LicenseNumber).To(Equal("NY-12345"))
		Expect(recs[0].LicenseState).To(Equal("NY"))
		Expect(recs[0].LicenseExpiry).To(Equal("2026-01-31"))
	})

	It("synthesizes the full name from first and last name", func() {
		csv := strings.Join([]string{
			"provider_id,first_name,last_name",
			"P1,Jane,Smith",
		}, "\n")

		recs, err := ingest.LoadCSV(ctx, strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs[0].FullName).To(Equal("Jane Smith"))
	})

	It("splits extra license states on semicolons", func() {
		csv := strings.Join([]string{
			"provider_id,full_name,extra_license_states",
			"P1,Jane Smith,CA; TX ;",
		}, "\n")

		recs, err := ingest.LoadCSV(ctx, strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs[0].ExtraLicenseStates).To(Equal([]string{"CA", "TX"}))
	})

	It("leaves unmapped fields empty instead of failing", func() {
		csv := strings.Join([]string{
			"provider_id,full_name",
			"P1,Jane Smith",
		}, "\n")

		recs, err := ingest.LoadCSV(ctx, strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs[0].NPI).To(BeEmpty())
		Expect(recs[0].Phone).To(BeEmpty())
		Expect(recs[0].LicenseNumber).To(BeEmpty())
	})

	It("skips rows without a provider id", func() {
		csv := strings.Join([]string{
			"provider_id,full_name",
			",Jane Smith",
			"P2,Bob Jones",
		}, "\n")

		recs, err := ingest.LoadCSV(ctx, strings.NewReader(csv))
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].ProviderID).To(Equal("P2"))
	})

	It("rejects a roster without a provider id column", func() {
		csv := strings.Join([]string{
			"full_name,specialty",
			"Jane Smith,Cardiology",
		}, "\n")

		_, err := ingest.LoadCSV(ctx, strings.NewReader(csv))
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("provider_id"))
	})

	It("rejects an empty upload", func() {
		_, err := ingest.LoadCSV(ctx, strings.NewReader(""))
		Expect(err).To(HaveOccurred())
	})
})
