package lang

// Tag identifies the language of a span of text.
type Tag string

const (
	Chinese Tag = "zh"
	English Tag = "en"
	Unknown Tag = "unknown"
)

// CJK unified ideographs that trigger Chinese classification.
const (
	cjkFirst = '一'
	cjkLast  = '龥'
)

// Detect returns Chinese when text contains any CJK ideograph, English when it
// contains any Latin letter, and Unknown otherwise. Ideographs take
// precedence, so mixed-script text is Chinese.
func Detect(text string) Tag {
	hasLatin := false
	for _, r := range text {
		if isIdeograph(r) {
			return Chinese
		}
		if isLatinLetter(r) {
			hasLatin = true
		}
	}
	if hasLatin {
		return English
	}
	return Unknown
}

// Locale maps a tag to the speech locale. Anything but Chinese reads as en-US.
func Locale(tag Tag) string {
	if tag == Chinese {
		return "zh-CN"
	}
	return "en-US"
}

// SourceCode maps a tag to the dictionary provider's source language code.
func SourceCode(tag Tag) string {
	if tag == Chinese {
		return "zh-CHS"
	}
	return "en"
}

// ParseTag converts a stored tag string back to a Tag.
func ParseTag(s string) Tag {
	switch Tag(s) {
	case Chinese, English:
		return Tag(s)
	default:
		return Unknown
	}
}

func isIdeograph(r rune) bool {
	return r >= cjkFirst && r <= cjkLast
}

func isLatinLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
