package patient

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	monthOnly    = regexp.MustCompile(`^(\d{1,2})/$`)
	monthDay     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	monthDayYear = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeDateTerms rewrites US-style date fragments in a search string to
// the stored yyyy-mm-dd form so they match DOB by substring:
//
//	"4/"        -> "04-"
//	"4/15"      -> "04-15"
//	"4/15/1994" -> "1994-04-15"
//
// Words that are not a valid date fragment pass through unchanged.
func NormalizeDateTerms(text string) string {
	words := strings.Split(text, " ")
	for i, w := range words {
		words[i] = normalizeWord(w)
	}
	return strings.Join(words, " ")
}

func normalizeWord(w string) string {
	if m := monthOnly.FindStringSubmatch(w); m != nil {
		if mo := atoi(m[1]); mo >= 1 && mo <= 12 {
			return fmt.Sprintf("%02d-", mo)
		}
		return w
	}
	if m := monthDay.FindStringSubmatch(w); m != nil {
		// Leap year so 2/29 is accepted without a year.
		if _, ok := validDate(2000, atoi(m[1]), atoi(m[2])); ok {
			return fmt.Sprintf("%02d-%02d", atoi(m[1]), atoi(m[2]))
		}
		return w
	}
	if m := monthDayYear.FindStringSubmatch(w); m != nil {
		if t, ok := validDate(atoi(m[3]), atoi(m[1]), atoi(m[2])); ok {
			return t.Format(time.DateOnly)
		}
	}
	return w
}

func validDate(y, m, d int) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t, t.Month() == time.Month(m) && t.Day() == d
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
