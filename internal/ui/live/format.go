package live

import "strconv"

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatElapsed renders whole seconds as m:ss (or h:mm:ss past the hour).
func formatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmtInt(h) + ":" + pad2(m) + ":" + pad2(s)
	}
	return fmtInt(m) + ":" + pad2(s)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return fmtInt(value)
	}
	return "0" + fmtInt(value)
}
