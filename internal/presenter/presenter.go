// Package presenter turns raw prediction results into user-facing chat text.
// Formatting is pure and stateless; the only non-success path is the
// no-confident-prediction message.
package presenter

import (
	"fmt"
	"math"
	"strings"

	"medichat/internal/modelapi"
)

const (
	NoConfidentPrediction = "I couldn't make a confident prediction based on your symptoms."

	disclaimer = "⚠️ **Important:** This is not a medical diagnosis. Please consult a healthcare professional for proper evaluation and treatment."
)

// FormatPrediction renders disease, rounded confidence percentage and a
// precaution bullet list. Somali responses use the translated precautions
// when present; the disclaimer is appended to every confident answer.
func FormatPrediction(result *modelapi.Result) string {
	if result == nil || result.Disease == "" || result.Confidence <= 0 {
		return NoConfidentPrediction
	}

	confidencePercent := int(math.Round(result.Confidence * 100))

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your symptoms, you might be experiencing **%s** (%d%% confidence).\n\n",
		result.Disease, confidencePercent)

	useSomali := isSomali(result.Lang) && len(result.TranslatedText) > 0
	precautions := result.Precautions
	header := "Precautions:"
	if useSomali {
		precautions = result.TranslatedText
		header = "Taxaddarrada:"
	}

	if len(precautions) > 0 {
		fmt.Fprintf(&b, "**%s**\n", header)
		for _, precaution := range precautions {
			fmt.Fprintf(&b, "• %s\n", precaution)
		}
		b.WriteString("\n")
	}

	b.WriteString(disclaimer)
	return b.String()
}

func isSomali(lang string) bool {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "so", "som", "somali":
		return true
	}
	return false
}
