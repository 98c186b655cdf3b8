package types

import (
	"context"
	"math"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/argmesh/core"
)

// Built-in type names.
const (
	String    = "string"
	Lowercase = "lowercase"
	Uppercase = "uppercase"
	CharCodes = "charCodes"
	Number    = "number"
	Integer   = "integer"
	BigInt    = "bigint"
	Emojint   = "emojint"
	URL       = "url"
	Date      = "date"
	Color     = "color"
	Duration  = "duration"
	UUID      = "uuid"
)

// textFunc adapts a pure token conversion into a core.CastFunc. Empty tokens
// never cast.
func textFunc(fn func(token string) any) core.CastFunc {
	return func(_ context.Context, token string, _ *core.Message, _ core.Args) (any, error) {
		if token == "" {
			return nil, nil
		}
		return fn(token), nil
	}
}

func builtins() map[string]core.CastFunc {
	return map[string]core.CastFunc{
		String:    textFunc(func(s string) any { return s }),
		Lowercase: textFunc(func(s string) any { return strings.ToLower(s) }),
		Uppercase: textFunc(func(s string) any { return strings.ToUpper(s) }),
		CharCodes: textFunc(charCodes),
		Number:    textFunc(parseNumber),
		Integer:   textFunc(parseInteger),
		BigInt:    textFunc(parseBigInt),
		Emojint:   textFunc(func(s string) any { return parseInteger(emojiDigits.Replace(s)) }),
		URL:       textFunc(parseURL),
		Date:      textFunc(parseDate),
		Color:     textFunc(parseColor),
		Duration:  textFunc(parseDuration),
		UUID:      textFunc(parseUUID),
	}
}

func charCodes(s string) any {
	codes := make([]int, 0, len(s))
	for _, r := range s {
		codes = append(codes, int(r))
	}
	return codes
}

func parseNumber(s string) any {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

// parseInteger accepts any finite number and truncates it toward zero.
func parseInteger(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, ok := parseNumber(s).(float64)
	if !ok || f > math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	return int(math.Trunc(f))
}

func parseBigInt(s string) any {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return n
}

var emojiDigits = strings.NewReplacer(
	"0️⃣", "0", "1️⃣", "1", "2️⃣", "2", "3️⃣", "3", "4️⃣", "4",
	"5️⃣", "5", "6️⃣", "6", "7️⃣", "7", "8️⃣", "8", "9️⃣", "9",
	"🔟", "10",
)

func parseURL(s string) any {
	s = strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return nil
	}
	return u
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	"Jan 2 2006",
	"January 2 2006",
}

func parseDate(s string) any {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return nil
}

// parseColor accepts "#rrggbb", "rrggbb" and "0xrrggbb" and returns the
// 24-bit value.
func parseColor(s string) any {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	if len(hex) != 6 {
		return nil
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil
	}
	return int(n)
}

func parseDuration(s string) any {
	d, err := time.ParseDuration(s)
	if err != nil {
		return nil
	}
	return d
}

func parseUUID(s string) any {
	id, err := uuid.Parse(s)
	if err != nil {
		return nil
	}
	return id
}
