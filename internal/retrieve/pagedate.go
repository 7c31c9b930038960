package retrieve

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultDateFormat = "MMM do, yyyy"

var dateTokens = []string{"yyyy", "yy", "MMMM", "MMM", "MM", "M", "do", "dd", "d", "EEEE", "EEE", "EE", "E"}

// FormatPageDate renders t with a journal date format (yyyy, MMM, do, EEE ...)
// and wraps it as a page reference.
func FormatPageDate(t time.Time, format string) string {
	if format == "" {
		format = DefaultDateFormat
	}
	var sb strings.Builder
	for i := 0; i < len(format); {
		token := matchToken(format[i:])
		if token == "" {
			sb.WriteByte(format[i])
			i++
			continue
		}
		sb.WriteString(renderToken(t, token))
		i += len(token)
	}
	return "[[" + sb.String() + "]]"
}

func matchToken(s string) string {
	for _, token := range dateTokens {
		if strings.HasPrefix(s, token) {
			return token
		}
	}
	return ""
}

func renderToken(t time.Time, token string) string {
	switch token {
	case "yyyy":
		return strconv.Itoa(t.Year())
	case "yy":
		return fmt.Sprintf("%02d", t.Year()%100)
	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		return strconv.Itoa(int(t.Month()))
	case "do":
		return ordinal(t.Day())
	case "dd":
		return fmt.Sprintf("%02d", t.Day())
	case "d":
		return strconv.Itoa(t.Day())
	case "EEEE":
		return t.Weekday().String()
	case "EEE", "EE", "E":
		return t.Weekday().String()[:3]
	}
	return token
}

func ordinal(n int) string {
	suffix := "th"
	switch {
	case n%100 >= 11 && n%100 <= 13:
	case n%10 == 1:
		suffix = "st"
	case n%10 == 2:
		suffix = "nd"
	case n%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(n) + suffix
}
