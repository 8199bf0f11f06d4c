package utils

import "github.com/microcosm-cc/bluemonday"

// Descriptions are free text typed by the user; strip any markup outright.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize removes HTML from user supplied text.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
