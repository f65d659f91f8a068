package clock

import (
	"regexp"
	"strconv"
	"strings"
)

// mmssRE matches a minutes:seconds shaped token. OCR often mangles the
// colon, so the separator is optional and may be read as '|' or ';'.
var mmssRE = regexp.MustCompile(`(\d{1,2})\s*[:|;]?\s*(\d{2})`)

// parseClockText finds an mm:ss token in free-form OCR output and returns
// the elapsed time in seconds. Spaces are stripped first; the seconds part
// must be in [0,59].
func parseClockText(text string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	m := mmssRE.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return combine(m[1], m[2])
}

// parseDigitToken parses output from the digit-whitelisted profile. Besides
// the mm:ss shape it accepts a bare 3-4 digit run, splitting the last two
// digits as seconds and the remainder as minutes.
func parseDigitToken(text string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(text), " ", "")
	if m := mmssRE.FindStringSubmatch(s); m != nil {
		return combine(m[1], m[2])
	}
	if (len(s) == 3 || len(s) == 4) && isDigits(s) {
		return combine(s[:len(s)-2], s[len(s)-2:])
	}
	return 0, false
}

func combine(mmStr, ssStr string) (int, bool) {
	mm, err1 := strconv.Atoi(mmStr)
	ss, err2 := strconv.Atoi(ssStr)
	if err1 != nil || err2 != nil || ss < 0 || ss > 59 {
		return 0, false
	}
	return mm*60 + ss, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
