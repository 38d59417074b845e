package xy

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	. "github.com/VasiliyTurchenko/excellon2em7/excellonbasetypes"
)

// ErrMalformedNumber is returned when a numeric token does not match the
// expected digit/format shape
var ErrMalformedNumber = errors.New("malformed number")

func malformed(token, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrMalformedNumber, token, reason)
}

// Function checks against non-number characters in the string
func isNumString(ins string) bool {
	v := []byte(ins)
	for _, c := range v {
		if (c < 0x30) || (c > 0x39) {
			return false
		}
	}
	return true
}

// strips an optional leading sign
func splitSign(ins string) (bool, string) {
	if strings.HasPrefix(ins, "-") {
		return true, strings.TrimPrefix(ins, "-")
	}
	return false, strings.TrimPrefix(ins, "+")
}

/*
############################ format specification #####################
*/

// ParseFormat reads "i:d" (as in ;FILE_FORMAT=2:4) into a CoordFormat
func ParseFormat(ins string) (CoordFormat, error) {
	var cf CoordFormat
	parts := strings.Split(strings.TrimSpace(ins), ":")
	if len(parts) != 2 {
		return cf, malformed(ins, "format must be <int>:<dec>")
	}
	var err error
	if cf.IntDigits, err = strconv.Atoi(parts[0]); err != nil {
		return cf, malformed(ins, "bad integer digits")
	}
	if cf.DecDigits, err = strconv.Atoi(parts[1]); err != nil {
		return cf, malformed(ins, "bad decimal digits")
	}
	if !cf.Valid() {
		return cf, malformed(ins, "digit count out of range 0:0 .. "+CoordFormat{IntDigits: MaxIntDigits, DecDigits: MaxDecDigits}.String())
	}
	return cf, nil
}

/*
######################### coordinate codec ####################################
*/

// Decode converts a fixed-point token into a real value.
// A token with an explicit decimal point is taken literally and zero
// suppression is ignored. Otherwise the digits are padded to the format
// width according to zs and the decimal point is placed DecDigits from the right.
func Decode(token string, cf CoordFormat, zs ZeroSuppression) (float64, error) {
	if !cf.Valid() {
		return 0, malformed(token, "invalid format "+cf.String())
	}
	neg, ws := splitSign(token)
	if strings.Contains(ws, ".") {
		return decodeLiteral(token, neg, ws)
	}
	if len(ws) == 0 || !isNumString(ws) {
		return 0, malformed(token, "not a number")
	}
	width := cf.Width()
	if len(ws) > width {
		return 0, malformed(token, "more than "+strconv.Itoa(width)+" digits")
	}
	var ps string
	switch zs {
	case ZeroSuppressionTrailing:
		// digits present are the leading ones
		ps = ws + strings.Repeat("0", width-len(ws))
	case ZeroSuppressionLeading:
		// digits present are the trailing ones
		ps = strings.Repeat("0", width-len(ws)) + ws
	case ZeroSuppressionNone:
		if len(ws) != width {
			return 0, malformed(token, "expected exactly "+strconv.Itoa(width)+" digits")
		}
		ps = ws
	default:
		return 0, malformed(token, zs.String())
	}
	d, err := decimal.NewFromString(ps)
	if err != nil {
		return 0, malformed(token, err.Error())
	}
	d = d.Shift(-int32(cf.DecDigits))
	if neg {
		d = d.Neg()
	}
	v, _ := d.Float64()
	return v, nil
}

func decodeLiteral(token string, neg bool, ws string) (float64, error) {
	parts := strings.Split(ws, ".")
	if len(parts) != 2 || len(parts[0])+len(parts[1]) == 0 ||
		!isNumString(parts[0]) || !isNumString(parts[1]) {
		return 0, malformed(token, "bad decimal literal")
	}
	if parts[0] == "" {
		parts[0] = "0"
	}
	if parts[1] == "" {
		parts[1] = "0"
	}
	d, err := decimal.NewFromString(parts[0] + "." + parts[1])
	if err != nil {
		return 0, malformed(token, err.Error())
	}
	if neg {
		d = d.Neg()
	}
	v, _ := d.Float64()
	return v, nil
}

// Encode is the inverse of Decode: it renders v in the suppressed digit form
func Encode(v float64, cf CoordFormat, zs ZeroSuppression) (string, error) {
	if !cf.Valid() {
		return "", errors.New("invalid format " + cf.String())
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", errors.New("value is not finite")
	}
	d := decimal.NewFromFloat(v).Round(int32(cf.DecDigits))
	if d.IsZero() && zs != ZeroSuppressionNone {
		return "0", nil
	}
	neg := d.Sign() < 0
	digits := d.Abs().Shift(int32(cf.DecDigits)).StringFixed(0)
	width := cf.Width()
	if len(digits) > width {
		return "", errors.New(strconv.FormatFloat(v, 'f', -1, 64) + " does not fit format " + cf.String())
	}
	digits = strings.Repeat("0", width-len(digits)) + digits
	switch zs {
	case ZeroSuppressionTrailing:
		digits = strings.TrimRight(digits, "0")
	case ZeroSuppressionLeading:
		digits = strings.TrimLeft(digits, "0")
	case ZeroSuppressionNone:
	default:
		return "", errors.New("unknown zero suppression")
	}
	if neg {
		digits = "-" + digits
	}
	return digits, nil
}

/*
######################### coordinates #########################################
*/

// XY is a 2D point in file units
type XY struct {
	x float64
	y float64
}

func NewXY(x, y float64) XY {
	return XY{x: x, y: y}
}

func (xy XY) String() string {
	return "(" + strconv.FormatFloat(xy.x, 'f', 5, 64) +
		"," + strconv.FormatFloat(xy.y, 'f', 5, 64) + ")"
}

func (xy XY) GetX() float64 {
	return xy.x
}

func (xy XY) GetY() float64 {
	return xy.y
}

// Move applies an axis update. Nil axes are left untouched.
// In incremental notation the values are added to the current position.
func (xy XY) Move(x, y *float64, n Notation) XY {
	if x != nil {
		if n == NotationIncremental {
			xy.x += *x
		} else {
			xy.x = *x
		}
	}
	if y != nil {
		if n == NotationIncremental {
			xy.y += *y
		} else {
			xy.y = *y
		}
	}
	return xy
}
