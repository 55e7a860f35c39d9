package app

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/p-n-ai/pai-tube/internal/youtube"
)

// Message keys double as the English text.
const (
	msgAnalysisComplete = "Analysis complete!"
	msgQuizGenerated    = "Quiz generated!"
	msgAnalyzeFailed    = "Failed to analyze: %s. Is backend running?"
	msgQuizFailed       = "Failed to generate quiz: %s"
	msgServerError      = "Server Error: %d"
	msgSummaryCopied    = "Summary copied!"
	msgQuizCopied       = "Quiz JSON copied!"
	msgSaved            = "Saved %s"
	msgExportFailed     = "Export failed: %s"
	msgScore            = "Score: %d/%d"
	msgInvalidURL       = youtube.InvalidURLMessage
	msgVideoID          = "Video ID: %s"

	labelTitle       = "YouTube Analyzer"
	labelURL         = "Paste a YouTube URL"
	labelAnalyze     = "Analyze Video"
	labelQuiz        = "Generate Quiz"
	labelTopics      = "Main Topics"
	labelSummary     = "Summary"
	labelAudience    = "Recommended Audience"
	labelQuizHeading = "Quiz"
	labelCopy        = "Copy"
	labelCopyJSON    = "Copy JSON"
	labelDownload    = "Download"
)

var translations = map[language.Tag]map[string]string{
	language.Malay: {
		msgAnalysisComplete: "Analisis selesai!",
		msgQuizGenerated:    "Kuiz dijana!",
		msgAnalyzeFailed:    "Gagal menganalisis: %s. Adakah backend sedang berjalan?",
		msgQuizFailed:       "Gagal menjana kuiz: %s",
		msgServerError:      "Ralat Pelayan: %d",
		msgSummaryCopied:    "Ringkasan disalin!",
		msgQuizCopied:       "JSON kuiz disalin!",
		msgSaved:            "Disimpan %s",
		msgExportFailed:     "Eksport gagal: %s",
		msgScore:            "Markah: %d/%d",
		msgInvalidURL:       "Sila masukkan URL YouTube yang sah",
		msgVideoID:          "ID Video: %s",
		labelTitle:          "Penganalisis YouTube",
		labelURL:            "Tampal URL YouTube",
		labelAnalyze:        "Analisis Video",
		labelQuiz:           "Jana Kuiz",
		labelTopics:         "Topik Utama",
		labelSummary:        "Ringkasan",
		labelAudience:       "Sasaran Penonton",
		labelQuizHeading:    "Kuiz",
		labelCopy:           "Salin",
		labelCopyJSON:       "Salin JSON",
		labelDownload:       "Muat Turun",
	},
}

func init() {
	for tag, entries := range translations {
		for key, msg := range entries {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("catalog %s %q: %v", tag, key, err))
			}
			// English entries keep lookups from falling through to another language.
			if err := message.SetString(language.English, key, key); err != nil {
				panic(fmt.Sprintf("catalog en %q: %v", key, err))
			}
		}
	}
}

// newPrinter returns a printer for a configured language code, defaulting
// to English.
func newPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	if _, ok := translations[tag]; !ok {
		tag = language.English
	}
	return message.NewPrinter(tag)
}
