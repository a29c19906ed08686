package extract

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipsScripts(t *testing.T) {
	html := `
	<html>
	<head><style>body { color: red; }</style></head>
	<body>
		<p>According to historians, laksa spread to coastal regions.</p>
		<script>var evidence = "hidden";</script>
		<noscript>Enable JavaScript</noscript>
		<p>Experts say it is delicious.</p>
	</body>
	</html>
	`

	text, err := VisibleText(html)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(text, "According to historians") {
		t.Errorf("Expected paragraph text, got %q", text)
	}
	if !strings.Contains(text, "Experts say it is delicious.") {
		t.Errorf("Expected second paragraph, got %q", text)
	}
	if strings.Contains(text, "hidden") || strings.Contains(text, "color") || strings.Contains(text, "Enable JavaScript") {
		t.Errorf("Expected script, style and noscript content to be skipped, got %q", text)
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Coffee improves focus. Is that so?\nSome say yes! Pi is 3.14 roughly"

	sentences := SplitSentences(text, 0)
	expected := []string{"Coffee improves focus.", "Is that so?", "Some say yes!", "Pi is 3.14 roughly"}

	if len(sentences) != len(expected) {
		t.Fatalf("Expected %d sentences, got %d: %v", len(expected), len(sentences), sentences)
	}
	for i := range expected {
		if sentences[i] != expected[i] {
			t.Errorf("Sentence %d: expected %q, got %q", i, expected[i], sentences[i])
		}
	}
}

func TestSplitSentences_MinLength(t *testing.T) {
	sentences := SplitSentences("Short. This sentence is long enough to keep.", 10)

	if len(sentences) != 1 {
		t.Fatalf("Expected 1 sentence, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "This sentence is long enough to keep." {
		t.Errorf("Unexpected sentence %q", sentences[0])
	}
}
