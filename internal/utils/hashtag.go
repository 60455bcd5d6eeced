package utils

import (
	"regexp"
	"strings"
)

var hashtagRe = regexp.MustCompile(`#([\p{L}\p{M}0-9_]+)`)

// ExtractHashtags returns the hashtags of text, lowercased and without the '#'.
// "Deadline for #CS101 #cs101 #exams?" -> ["cs101", "cs101", "exams"].
func ExtractHashtags(text string) []string {
	matches := hashtagRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}
