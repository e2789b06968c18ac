package genai

import (
	"strings"
	"testing"

	"github.com/mikael-ade/transdoc/internal/models"
)

func TestBuildTabularExtractionPrompt_TranslationClause(t *testing.T) {
	plain := BuildTabularExtractionPrompt(models.TargetNone)
	if strings.Contains(strings.ToLower(plain), "translate") {
		t.Errorf("prompt without target should not mention translation: %q", plain)
	}

	withTarget := BuildTabularExtractionPrompt(models.TranslationTarget("French"))
	if !strings.Contains(withTarget, "French") {
		t.Errorf("prompt with target should carry the language: %q", withTarget)
	}
	// The translation rides on the same request as the extraction.
	if !strings.HasPrefix(withTarget, plain) {
		t.Errorf("translation clause should extend the extraction prompt, not replace it")
	}
}

func TestBuildUnitTranslationPrompt_EmbedsMatrix(t *testing.T) {
	prompt, err := BuildUnitTranslationPrompt([][]string{{"Name", "Age"}, {"Ann", "30"}}, "German")
	if err != nil {
		t.Fatalf("BuildUnitTranslationPrompt: %v", err)
	}
	if !strings.Contains(prompt, `[["Name","Age"],["Ann","30"]]`) {
		t.Errorf("prompt should embed the full matrix as JSON: %q", prompt)
	}
	if !strings.Contains(prompt, "German") {
		t.Errorf("prompt should carry the target language: %q", prompt)
	}
	if !strings.Contains(prompt, "translatedData") {
		t.Errorf("prompt should name the response field: %q", prompt)
	}
}
