package utils

import "errors"

// ErrInvalidCard is returned when a payment card number fails
// syntactic validation.  Checkout reports it before touching the cart
// or any stock row.
var ErrInvalidCard = errors.New("invalid card number")

// NormalizeCardNumber strips space and dash separators from a card
// number and verifies that the remainder is digit-only, 13 to 16
// characters long, and passes the Luhn checksum.  It returns the
// normalized digit string on success and ErrInvalidCard otherwise.
// No network call is made; this is purely syntactic validation of the
// payment instrument.
func NormalizeCardNumber(raw string) (string, error) {
    digits := make([]byte, 0, len(raw))
    for i := 0; i < len(raw); i++ {
        switch ch := raw[i]; {
        case ch >= '0' && ch <= '9':
            digits = append(digits, ch)
        case ch == ' ' || ch == '-':
            // common separators are tolerated
        default:
            return "", ErrInvalidCard
        }
    }
    if len(digits) < 13 || len(digits) > 16 {
        return "", ErrInvalidCard
    }
    if !luhnValid(digits) {
        return "", ErrInvalidCard
    }
    return string(digits), nil
}

// MaskCardNumber returns the card number with all but the last four
// digits replaced by asterisks.  The masked form is what gets stored
// on payment_cards rows and order payment references; the full number
// never touches the database.
func MaskCardNumber(digits string) string {
    if len(digits) <= 4 {
        return digits
    }
    masked := make([]byte, len(digits))
    for i := range masked {
        masked[i] = '*'
    }
    copy(masked[len(masked)-4:], digits[len(digits)-4:])
    return string(masked)
}

// luhnValid reports whether a digit-only byte slice passes the Luhn
// checksum: double every second digit from the rightmost, subtract 9
// when the doubled value exceeds 9, sum everything, and require the
// sum to be divisible by 10.
func luhnValid(digits []byte) bool {
    sum := 0
    double := false
    for i := len(digits) - 1; i >= 0; i-- {
        d := int(digits[i] - '0')
        if double {
            d *= 2
            if d > 9 {
                d -= 9
            }
        }
        sum += d
        double = !double
    }
    return sum%10 == 0
}
