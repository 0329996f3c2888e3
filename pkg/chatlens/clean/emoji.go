package clean

// emojiRanges are the Unicode blocks treated as emoji: emoticons,
// supplemental symbols, misc symbols and pictographs, transport, regional
// indicators, dingbats, and enclosed characters. Deliberately a fixed
// range check, not full UTS #51 segmentation; ZWJ sequences and keycaps
// outside these blocks do not count.
var emojiRanges = [...][2]rune{
	{0x1F600, 0x1F64F},
	{0x1F920, 0x1F9FF},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF},
	{0x2702, 0x27B0},
	{0x24C2, 0x1F251},
}

// HasEmoji reports whether any rune of s falls in an emoji range.
// Call it after normalization so stripped markup cannot carry emoji.
func HasEmoji(s string) bool {
	for _, r := range s {
		if IsEmojiRune(r) {
			return true
		}
	}
	return false
}

// IsEmojiRune reports whether a single rune falls in an emoji range.
func IsEmojiRune(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}
