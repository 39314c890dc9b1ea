package invoicing

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// InvoiceNumberPrefix starts every generated invoice number.
const InvoiceNumberPrefix = "INV-"

var (
	strictNumberPattern  = regexp.MustCompile(`^INV-(\d{2})-(\d{6})$`)
	trailingDigitPattern = regexp.MustCompile(`(\d+)$`)
)

// YearPrefix returns the per-year prefix, e.g. "INV-25-" for any date in 2025.
func YearPrefix(now time.Time) string {
	return fmt.Sprintf("%s%02d-", InvoiceNumberPrefix, now.UTC().Year()%100)
}

// FormatInvoiceNumber renders seq under the year prefix of now, zero padded to six digits.
func FormatInvoiceNumber(now time.Time, seq int64) string {
	return fmt.Sprintf("%s%06d", YearPrefix(now), seq)
}

// ParseSequence extracts the counter from a number that strictly follows
// INV-YY-NNNNNN. ok is false for anything else.
func ParseSequence(number string) (int64, bool) {
	m := strictNumberPattern.FindStringSubmatch(number)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxTrailingSequence returns the largest trailing numeric suffix found across
// numbers. Numbers without a trailing digit run are ignored.
func MaxTrailingSequence(numbers []string) int64 {
	var highest int64
	for _, number := range numbers {
		m := trailingDigitPattern.FindStringSubmatch(number)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}

// NumberSource reads the existing invoice numbers of one company.
type NumberSource interface {
	// LatestNumber returns the highest invoice number starting with prefix in
	// string order, or "" when there is none. Under one INV-YY- prefix the
	// zero-padded counters sort like their numeric value.
	LatestNumber(ctx context.Context, prefix string) (string, error)
	// NumbersWithPrefix returns every invoice number starting with prefix.
	NumbersWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// NextInvoiceNumber derives the next number for the year of now. The latest
// number under the year prefix is used when it is well formed; otherwise every
// number under that prefix is scanned and the highest trailing suffix wins.
// Counters restart at 000001 for a new year prefix.
func NextInvoiceNumber(ctx context.Context, src NumberSource, now time.Time) (string, error) {
	prefix := YearPrefix(now)

	latest, err := src.LatestNumber(ctx, prefix)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return FormatInvoiceNumber(now, 1), nil
	}
	if seq, ok := ParseSequence(latest); ok {
		return FormatInvoiceNumber(now, seq+1), nil
	}

	numbers, err := src.NumbersWithPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(now, MaxTrailingSequence(numbers)+1), nil
}
