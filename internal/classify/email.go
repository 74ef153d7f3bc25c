// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "regexp"

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// ExtractEmail returns the first email address in text, or "" if none.
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}
