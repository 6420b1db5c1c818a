package validation

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Domain validator names accepted by Lookup.
const (
	DomainVehicle = "vehicle"
	DomainPhone   = "phone"
	DomainName    = "name"
	DomainAddress = "address"
	DomainWeight  = "weight"
)

const (
	vehicleMinLength = 4
	vehicleMaxLength = 15
	phoneMinDigits   = 10
	phoneMaxDigits   = 15
	nameMinLength    = 2
	nameMaxLength    = 100
	addressMinLength = 5
	addressMaxLength = 250
)

// WeightBounds is the accepted weighbridge reading range, 0 < w <= 100000.
var WeightBounds = Bounds{
	Min:          Limit(0),
	Max:          Limit(100000),
	ExclusiveMin: true,
}

// DomainValidator validates a raw string independently of any field.
type DomainValidator func(raw string) Result

var domainValidators = map[string]DomainValidator{
	DomainVehicle: VehicleNumber,
	DomainPhone:   PhoneNumber,
	DomainName:    Name,
	DomainAddress: Address,
	DomainWeight:  Weight,
}

// Lookup resolves a domain validator by name (case-insensitive).
func Lookup(name string) (DomainValidator, bool) {
	fn, ok := domainValidators[strings.ToLower(strings.TrimSpace(name))]
	return fn, ok
}

// DomainNames lists the registered domain validators, sorted.
func DomainNames() []string {
	names := make([]string, 0, len(domainValidators))
	for name := range domainValidators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormatVehicleNumber upper-cases raw and strips whitespace, hyphens and dots:
// " ka 01 ab 1234 " becomes "KA01AB1234".
func FormatVehicleNumber(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// VehicleNumber validates a registration plate after FormatVehicleNumber.
func VehicleNumber(raw string) Result {
	formatted := FormatVehicleNumber(raw)
	if formatted == "" {
		return Failure("Vehicle number is required")
	}
	length := utf8.RuneCountInString(formatted)
	if length < vehicleMinLength {
		return Failure("Vehicle number must be at least " + strconv.Itoa(vehicleMinLength) + " characters")
	}
	if length > vehicleMaxLength {
		return Failure("Vehicle number must be at most " + strconv.Itoa(vehicleMaxLength) + " characters")
	}
	for _, r := range formatted {
		if !isASCIIAlnum(r) {
			return Failure("Vehicle number may only contain letters and digits")
		}
	}
	return Success()
}

// NormalizePhoneNumber strips spaces, hyphens, dots and parentheses while
// keeping a leading '+'.
func NormalizePhoneNumber(raw string) string {
	trimmed := strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(trimmed))
	for i, r := range trimmed {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case unicode.IsSpace(r), r == '-', r == '.', r == '(', r == ')':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneNumber validates a phone number after NormalizePhoneNumber.
func PhoneNumber(raw string) Result {
	normalized := NormalizePhoneNumber(raw)
	if normalized == "" {
		return Failure("Phone number is required")
	}
	digits := strings.TrimPrefix(normalized, "+")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return Failure("Phone number may only contain digits")
		}
	}
	if len(digits) < phoneMinDigits {
		return Failure("Phone number must have at least " + strconv.Itoa(phoneMinDigits) + " digits")
	}
	if len(digits) > phoneMaxDigits {
		return Failure("Phone number must have at most " + strconv.Itoa(phoneMaxDigits) + " digits")
	}
	return Success()
}

// NormalizeName trims raw and collapses internal whitespace runs.
func NormalizeName(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Name validates a person or company name: letters, spaces and . ' - only.
func Name(raw string) Result {
	normalized := NormalizeName(raw)
	if normalized == "" {
		return Failure("Name is required")
	}
	length := utf8.RuneCountInString(normalized)
	if length < nameMinLength {
		return Failure("Name must be at least " + strconv.Itoa(nameMinLength) + " characters")
	}
	if length > nameMaxLength {
		return Failure("Name must be at most " + strconv.Itoa(nameMaxLength) + " characters")
	}
	for _, r := range normalized {
		if unicode.IsLetter(r) || r == ' ' || r == '.' || r == '\'' || r == '-' {
			continue
		}
		return Failure("Name may only contain letters, spaces and . ' -")
	}
	return Success()
}

// NormalizeAddress trims raw and collapses whitespace, including newlines.
func NormalizeAddress(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Address validates a postal address length.
func Address(raw string) Result {
	normalized := NormalizeAddress(raw)
	if normalized == "" {
		return Failure("Address is required")
	}
	length := utf8.RuneCountInString(normalized)
	if length < addressMinLength {
		return Failure("Address must be at least " + strconv.Itoa(addressMinLength) + " characters")
	}
	if length > addressMaxLength {
		return Failure("Address must be at most " + strconv.Itoa(addressMaxLength) + " characters")
	}
	return Success()
}

// Weight validates a weighbridge reading against WeightBounds.
func Weight(raw string) Result {
	return Number("Weight", raw, WeightBounds)
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
