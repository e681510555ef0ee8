package transcript

import "fmt"

// FormatOptions controls FormatTimestamp.
type FormatOptions struct {
	// PadHours zero-pads hours to two digits when hours are shown.
	PadHours bool
	// ForceHours shows the hours field even when it is zero.
	ForceHours bool
}

// FormatTimestamp renders whole seconds as a clock string.
//
//	FormatTimestamp(75, FormatOptions{})                                 -> "1:15"
//	FormatTimestamp(3725, FormatOptions{})                               -> "1:02:05"
//	FormatTimestamp(75, FormatOptions{PadHours: true, ForceHours: true}) -> "00:01:15"
func FormatTimestamp(seconds int64, opts FormatOptions) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h == 0 && !opts.ForceHours {
		return fmt.Sprintf("%d:%02d", m, s)
	}
	if opts.PadHours {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
