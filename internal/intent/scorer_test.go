package intent

import (
	"strings"
	"testing"
)

func score(t *testing.T, text string, activeSource, lastAssistant bool) Result {
	t.Helper()
	return Score(Input{
		Text:             text,
		HasActiveSource:  activeSource,
		HasLastAssistant: lastAssistant,
		Signals:          Detect(text),
	})
}

func TestScoreRulePriority(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		activeSource  bool
		lastAssistant bool
		wantRoute     Route
		minConf       float64
		maxConf       float64
	}{
		{
			name:      "explicit full rewrite, no source",
			text:      "viết lại toàn bộ",
			wantRoute: RouteCreate,
			minConf:   0.90, maxConf: 1.0,
		},
		{
			name:         "explicit create wins even with active source",
			text:         "viết lại toàn bộ bài này",
			activeSource: true,
			wantRoute:    RouteCreate,
			minConf:      0.90, maxConf: 1.0,
		},
		{
			name:      "explicit transform reference",
			text:      "sửa lại đoạn trên cho hay hơn",
			wantRoute: RouteTransform,
			minConf:   0.85, maxConf: 0.98,
		},
		{
			name:         "explicit transform reference with bound source is boosted",
			text:         "sửa lại đoạn trên cho hay hơn",
			activeSource: true,
			wantRoute:    RouteTransform,
			minConf:      0.89, maxConf: 0.98,
		},
		{
			name:      "long input reads as new material",
			text:      strings.Repeat("giới thiệu sản phẩm mùa hè ", 10),
			wantRoute: RouteCreate,
			minConf:   0.75, maxConf: 0.90,
		},
		{
			name:         "ambiguous action verb with active source",
			text:         "ngắn hơn",
			activeSource: true,
			wantRoute:    RouteTransform,
			minConf:      0.62, maxConf: 0.78,
		},
		{
			name:          "ambiguous action verb with only an assistant turn",
			text:          "ngắn hơn",
			lastAssistant: true,
			wantRoute:     RouteTransform,
			minConf:       0.45, maxConf: 0.60,
		},
		{
			name:      "ambiguous action verb with nothing to transform",
			text:      "ngắn hơn",
			wantRoute: RouteCreate,
			minConf:   0.0, maxConf: 0.50,
		},
		{
			name:      "no signal at all",
			text:      "sản phẩm mùa hè",
			wantRoute: RouteCreate,
			minConf:   0.0, maxConf: 0.59,
		},
		{
			name:         "no signal with context is boosted but stays below 0.60",
			text:         "sản phẩm mùa hè",
			activeSource: true,
			wantRoute:    RouteCreate,
			minConf:      0.50, maxConf: 0.59,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := score(t, tt.text, tt.activeSource, tt.lastAssistant)
			if got.Route != tt.wantRoute {
				t.Errorf("Route = %q, want %q (reason: %s)", got.Route, tt.wantRoute, got.Reason)
			}
			if got.Confidence < tt.minConf || got.Confidence > tt.maxConf {
				t.Errorf("Confidence = %.2f, want within [%.2f, %.2f]", got.Confidence, tt.minConf, tt.maxConf)
			}
			if got.Reason == "" {
				t.Error("Reason should never be empty")
			}
		})
	}
}

func TestScoreConfidenceBounds(t *testing.T) {
	texts := []string{
		"", "viết lại toàn bộ", "ngắn hơn", "đoạn trên", "xin chào",
		strings.Repeat("từ ", 200), "make it shorter", "write a new post about coffee",
	}
	for _, text := range texts {
		for _, src := range []bool{false, true} {
			for _, asst := range []bool{false, true} {
				got := score(t, text, src, asst)
				if got.Confidence < 0 || got.Confidence > 1 {
					t.Errorf("Score(%q, src=%v, asst=%v).Confidence = %v out of [0,1]", text, src, asst, got.Confidence)
				}
			}
		}
	}
}

func TestScoreIsPure(t *testing.T) {
	in := Input{Text: "ngắn hơn", HasActiveSource: true, Signals: Detect("ngắn hơn")}
	first := Score(in)
	for i := 0; i < 5; i++ {
		if got := Score(in); got != first {
			t.Fatalf("Score is not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestConfidenceThresholds(t *testing.T) {
	if !IsHighConfidence(0.80) || IsHighConfidence(0.79) {
		t.Error("IsHighConfidence boundary should be 0.80")
	}
	if !IsLowConfidence(0.64) || IsLowConfidence(0.65) {
		t.Error("IsLowConfidence boundary should be 0.65")
	}
}
