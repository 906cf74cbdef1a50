package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"wakacjecypr/internal/domain/models"
	"wakacjecypr/internal/pricing"
	"wakacjecypr/internal/repositories"
	"wakacjecypr/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// VoucherService renders the PDF confirmation of a stored booking.
type VoucherService struct {
	BookingRepo repositories.BookingRepository
	RequestID   string
	Loader      func(ctx context.Context, ref string) (models.Booking, error)
}

func (s VoucherService) load(ctx context.Context, ref string) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(ctx, ref)
	}
	return s.BookingRepo.GetByReference(ctx, ref)
}

func (s VoucherService) Generate(ctx context.Context, ref string) ([]byte, string, error) {
	b, err := s.load(ctx, ref)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "voucher", "generate", "ref="+b.Reference)
	return buildVoucherPDF(b)
}

func buildVoucherPDF(b models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Booking voucher "+b.Reference, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING VOUCHER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		fmt.Sprintf("Reference : %s", b.Reference),
		fmt.Sprintf("Booked on : %s", b.CreatedAt.UTC().Format("2006-01-02 15:04")),
		fmt.Sprintf("Name      : %s", safe(b.ContactName, "-")),
		fmt.Sprintf("Phone     : %s", safe(b.ContactPhone, "-")),
		fmt.Sprintf("E-mail    : %s", safe(b.ContactEmail, "-")),
		fmt.Sprintf("Vehicle   : %s", safe(b.VehicleID, "-")),
		fmt.Sprintf("Rental    : %d days", b.DayCount),
	}
	for _, line := range header {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	for _, leg := range b.Legs {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		title := "Outbound"
		if leg.Direction == "return" {
			title = "Return"
		}
		pdf.Cell(0, 7, title)
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		lines := []string{
			fmt.Sprintf("Route   : %s -> %s", locationName(leg.Origin), locationName(leg.Destination)),
			fmt.Sprintf("When    : %s %s", safe(leg.Date, "-"), safe(leg.Time, "-")),
			fmt.Sprintf("Guests  : %d adults, %d bags, %d oversize", leg.Extras.Adults, leg.Extras.Bags, leg.Extras.OversizeBags),
		}
		if leg.FlightNumber != "" {
			lines = append(lines, "Flight  : "+leg.FlightNumber)
		}
		if leg.PickupAddress != "" {
			lines = append(lines, "Pickup  : "+leg.PickupAddress)
		}
		if leg.DropoffAddress != "" {
			lines = append(lines, "Dropoff : "+leg.DropoffAddress)
		}
		for _, line := range lines {
			pdf.Cell(0, 6, tr(line))
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr("Rental price : "+utils.FormatEuro(b.BasePrice)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr("Surcharges   : "+utils.FormatEuro(b.SurchargeTotal)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, tr("Total        : "+utils.FormatEuro(b.Total)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	note := "Please show this voucher when collecting the car."
	if b.PaymentURL != "" {
		note += " Payment link: " + b.PaymentURL
	}
	pdf.MultiCell(0, 6, tr(note), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("VOUCHER_%s.pdf", safeFilenamePart(b.Reference)), nil
}

func locationName(code string) string {
	if l, ok := pricing.LookupLocation(code); ok {
		return l.Name
	}
	return safe(code, "-")
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
