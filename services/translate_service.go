package services

import (
	"net/http"
	"strings"
	"travel-server/utils/errors"
)

// TranslateService serves a small built-in travel phrasebook. Phrases are
// matched case-insensitively.
type TranslateService struct {
	phrasebook map[string]map[string]string
}

func NewTranslateService() *TranslateService {
	return &TranslateService{phrasebook: defaultPhrasebook}
}

// Translate looks up the phrase in the given language. Unknown language or
// phrase is a 404.
func (s *TranslateService) Translate(phrase, lang string) (string, error) {
	phrases, ok := s.phrasebook[strings.ToLower(lang)]
	if !ok {
		return "", errors.NewAPIError("LANGUAGE_NOT_FOUND", "Language not supported", http.StatusNotFound)
	}
	translation, ok := phrases[strings.ToLower(strings.TrimSpace(phrase))]
	if !ok {
		return "", errors.NewAPIError("PHRASE_NOT_FOUND", "Phrase not in the phrasebook", http.StatusNotFound)
	}
	return translation, nil
}

var defaultPhrasebook = map[string]map[string]string{
	"fr": {
		"hello":     "Bonjour",
		"goodbye":   "Au revoir",
		"please":    "S'il vous plaît",
		"thank you": "Merci",
		"excuse me": "Excusez-moi",
		"how much":  "Combien",
		"where is":  "Où est",
		"help":      "Au secours",
	},
	"es": {
		"hello":     "Hola",
		"goodbye":   "Adiós",
		"please":    "Por favor",
		"thank you": "Gracias",
		"excuse me": "Perdón",
		"how much":  "Cuánto cuesta",
		"where is":  "Dónde está",
		"help":      "Ayuda",
	},
	"de": {
		"hello":     "Hallo",
		"goodbye":   "Auf Wiedersehen",
		"please":    "Bitte",
		"thank you": "Danke",
		"excuse me": "Entschuldigung",
		"how much":  "Wie viel",
		"where is":  "Wo ist",
		"help":      "Hilfe",
	},
	"it": {
		"hello":     "Ciao",
		"goodbye":   "Arrivederci",
		"please":    "Per favore",
		"thank you": "Grazie",
		"excuse me": "Mi scusi",
		"how much":  "Quanto costa",
		"where is":  "Dov'è",
		"help":      "Aiuto",
	},
	"ja": {
		"hello":     "こんにちは",
		"goodbye":   "さようなら",
		"please":    "お願いします",
		"thank you": "ありがとう",
		"excuse me": "すみません",
		"how much":  "いくらですか",
		"where is":  "どこですか",
		"help":      "助けて",
	},
}
