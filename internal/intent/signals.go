package intent

import "strings"

// Keyword sets cover Vietnamese first (the primary audience) with English
// fallbacks. Matching is case-insensitive substring matching on the
// whitespace-normalized instruction.

// explicitCreatePatterns signal that the user wants brand-new content, even
// when a previous draft exists.
var explicitCreatePatterns = []string{
	"viết lại toàn bộ",
	"viết lại từ đầu",
	"viết mới",
	"viết bài mới",
	"tạo mới",
	"làm lại từ đầu",
	"bài mới",
	"bỏ hết viết lại",
	"write a new",
	"start over",
	"start from scratch",
	"from scratch",
	"brand new",
	"new post",
}

// explicitTransformPatterns reference an existing draft directly.
var explicitTransformPatterns = []string{
	"đoạn trên",
	"đoạn này",
	"bản trên",
	"bản này",
	"bài trên",
	"bài này",
	"nội dung trên",
	"phần trên",
	"sửa lại đoạn",
	"chỉnh lại bản",
	"the above",
	"this draft",
	"the draft",
	"this version",
	"that version",
	"rewrite it",
	"edit it",
}

// actionVerbPatterns are transformation verbs that, on their own, leave the
// target ambiguous ("ngắn hơn": shorter than what?).
var actionVerbPatterns = []string{
	"ngắn hơn",
	"ngắn lại",
	"dài hơn",
	"rút gọn",
	"mở rộng",
	"thêm",
	"bớt",
	"đổi giọng",
	"trang trọng hơn",
	"thân thiện hơn",
	"chuyên nghiệp hơn",
	"đơn giản hơn",
	"shorter",
	"longer",
	"shorten",
	"expand",
	"simplify",
	"more formal",
	"less formal",
	"friendlier",
	"change the tone",
	"tone it down",
}

// Detect classifies raw instruction text into routing signals. It is pure and
// deterministic; the same text always yields the same signals.
func Detect(text string) Signals {
	norm := strings.ToLower(strings.Join(strings.Fields(text), " "))

	s := Signals{
		WordCount:   len(strings.Fields(norm)),
		InputLength: len([]rune(strings.TrimSpace(text))),
	}

	s.ExplicitNewCreate = matchesAny(norm, explicitCreatePatterns)
	// An explicit new-create marker wins over transform references, so "viết
	// lại toàn bộ bài trên" still counts as a create signal only.
	if !s.ExplicitNewCreate {
		s.ExplicitTransformRef = matchesAny(norm, explicitTransformPatterns)
	}
	s.HasActionVerb = matchesAny(norm, actionVerbPatterns)
	s.AmbiguousTransform = !s.ExplicitNewCreate && !s.ExplicitTransformRef && s.HasActionVerb

	return s
}

func matchesAny(norm string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(norm, p) {
			return true
		}
	}
	return false
}
