package preference

import (
	"strings"
	"unicode"
)

// shortRequestPatterns and longRequestPatterns classify instruction text into
// length preferences without keeping the text around.
var shortRequestPatterns = []string{
	"ngắn hơn", "ngắn lại", "rút gọn", "ngắn gọn", "súc tích",
	"shorter", "shorten", "more concise", "briefer",
}

var longRequestPatterns = []string{
	"dài hơn", "chi tiết hơn", "mở rộng", "thêm chi tiết",
	"longer", "expand", "more detail", "elaborate",
}

var editInPlacePatterns = []string{
	"sửa trực tiếp", "sửa luôn", "đổi luôn",
	"edit in place", "just change", "fix it directly",
}

var newVersionPatterns = []string{
	"bản mới", "phiên bản khác", "một bản nữa", "viết thêm một bản",
	"another version", "new version", "give me another",
}

// DetectInstructionSignals classifies free instruction text into preference
// signals. Only the classification leaves this function.
func DetectInstructionSignals(text string) []Signal {
	norm := strings.ToLower(strings.Join(strings.Fields(text), " "))
	var signals []Signal

	if matchesAny(norm, shortRequestPatterns) {
		signals = append(signals,
			Signal{Key: KeyShortOutput, Positive: true},
			Signal{Key: KeyLongOutput, Positive: false})
	}
	if matchesAny(norm, longRequestPatterns) {
		signals = append(signals,
			Signal{Key: KeyLongOutput, Positive: true},
			Signal{Key: KeyShortOutput, Positive: false})
	}
	if matchesAny(norm, editInPlacePatterns) {
		signals = append(signals, Signal{Key: KeyEditInPlace, Positive: true})
	}
	if matchesAny(norm, newVersionPatterns) {
		signals = append(signals, Signal{Key: KeyNewVersion, Positive: true})
	}
	return signals
}

// shortOutputRunes is the length under which accepted output counts as a
// short-output observation.
const shortOutputRunes = 400

// DetectOutputSignals classifies characteristics of output the user accepted:
// its length band and whether it carried emoji.
func DetectOutputSignals(content string) []Signal {
	var signals []Signal

	runes := len([]rune(content))
	if runes > 0 && runes <= shortOutputRunes {
		signals = append(signals, Signal{Key: KeyShortOutput, Positive: true})
	} else if runes > 3*shortOutputRunes {
		signals = append(signals, Signal{Key: KeyLongOutput, Positive: true})
	}

	if containsEmoji(content) {
		signals = append(signals, Signal{Key: KeyEmoji, Positive: true})
	} else if runes > 0 {
		signals = append(signals, Signal{Key: KeyPlainText, Positive: true})
	}
	return signals
}

func containsEmoji(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.So, r) || (r >= 0x1F300 && r <= 0x1FAFF) {
			return true
		}
	}
	return false
}

func matchesAny(norm string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}
