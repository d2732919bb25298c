package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
	"travelbook/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the booking voucher PDF.
type DocsService struct {
	Store     repositories.Store
	Timeout   time.Duration
	Clock     func() time.Time
	RequestID string
	Loader    func(ctx context.Context, bookingID string) (voucherData, error)
}

type voucherData struct {
	Booking      models.Booking
	HotelAddress string
	HotelPhone   string
	Inclusions   []string
}

func (s DocsService) GenerateVoucher(ctx context.Context, bookingID string) ([]byte, string, error) {
	data, err := s.loadVoucherData(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_voucher", "booking_id="+bookingID)
	return buildVoucherPDF(data, clock(s.Clock))
}

func (s DocsService) loadVoucherData(ctx context.Context, bookingID string) (voucherData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	var out voucherData
	b, err := s.Store.Bookings().Get(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return out, storeError("voucher", "booking", err)
	}
	out.Booking = b

	// Hotel details are decoration; the voucher still renders if the hotel
	// was removed after booking.
	if h, err := s.Store.Inventory().GetHotelByName(ctx, b.HotelName); err == nil {
		out.HotelAddress = strings.TrimSpace(h.Address + ", " + h.City)
		out.HotelPhone = h.Phone
		if p, ok := h.Package(b.PackageName); ok {
			out.Inclusions = p.Inclusions
		}
	}
	return out, nil
}

func buildVoucherPDF(d voucherData, now time.Time) ([]byte, string, error) {
	b := d.Booking
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Voucher", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING VOUCHER")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ID   : %s", safe(b.BookingID, "-")),
		fmt.Sprintf("Guest        : %s", safe(b.UserName, "-")),
		fmt.Sprintf("Hotel        : %s", safe(b.HotelName, "-")),
		fmt.Sprintf("Address      : %s", safe(strings.Trim(d.HotelAddress, ", "), "-")),
		fmt.Sprintf("Phone        : %s", safe(d.HotelPhone, "-")),
		fmt.Sprintf("Package      : %s", safe(b.PackageName, "-")),
		fmt.Sprintf("Rooms        : %d", b.Rooms),
		fmt.Sprintf("Stay         : %s -> %s", utils.FormatDate(b.BookingFrom), utils.FormatDate(b.BookingTo)),
		fmt.Sprintf("Status       : %s", strings.ToUpper(safe(string(b.Status), "-"))),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	if len(d.Inclusions) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Inclusions:")
		pdf.Ln(7)
		pdf.SetFont("Helvetica", "", 11)
		for _, inc := range d.Inclusions {
			pdf.Cell(0, 6, "- "+inc)
			pdf.Ln(6)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Payment:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Card   : %s %s", strings.ToUpper(safe(b.Payment.CardType, "-")), safe(b.Payment.CardNumber, "-")))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Amount : "+utils.FormatMoney(b.Payment.Amount))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Issued "+utils.FormatDateTime(now)+" UTC. Present this voucher at check-in.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("VOUCHER_%s_%s.pdf", safeFilenamePart(b.BookingID), safeFilenamePart(b.UserName))
	return buf.Bytes(), filename, nil
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
