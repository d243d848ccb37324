package texcas

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// maxVerbatimError is the longest unrecognised engine message shown as is.
const maxVerbatimError = 100

type phrase struct {
	match string // lower case English engine phrase
	text  string
}

type catalog struct {
	phrases     []phrase
	generic     string
	prefix      string
	unsupported string
	unknown     string
	labels      map[OperationKind]string
}

var french = &catalog{
	phrases: []phrase{
		{"undefined symbol", "Symbole non défini"},
		{"unexpected end of expression", "Expression incomplète"},
		{"unexpected operator", "Opérateur inattendu"},
		{"parenthesis mismatch", "Parenthèses non équilibrées"},
		{"division by zero", "Division par zéro"},
		{"unknown function", "Fonction inconnue"},
		{"invalid syntax", "Syntaxe invalide"},
		{"no real solutions", "Aucune solution réelle"},
		{"unable to integrate", "Impossible d'intégrer"},
		{"unable to differentiate", "Impossible de dériver"},
		{"wrong number of arguments", "Nombre d'arguments incorrect"},
	},
	generic:     "Erreur de calcul. Vérifiez votre expression.",
	prefix:      "Erreur: ",
	unsupported: "Opération non supportée: ",
	unknown:     "Erreur inconnue",
	labels: map[OperationKind]string{
		Evaluate:   "Calculer",
		Simplify:   "Simplifier",
		Factor:     "Factoriser",
		Expand:     "Développer",
		Solve:      "Résoudre",
		Derivative: "Dériver",
		Integrate:  "Intégrer",
	},
}

var english = &catalog{
	phrases: []phrase{
		{"undefined symbol", "Undefined symbol"},
		{"unexpected end of expression", "Incomplete expression"},
		{"unexpected operator", "Unexpected operator"},
		{"parenthesis mismatch", "Unbalanced parentheses"},
		{"division by zero", "Division by zero"},
		{"unknown function", "Unknown function"},
		{"invalid syntax", "Invalid syntax"},
		{"no real solutions", "No real solutions"},
		{"unable to integrate", "Unable to integrate"},
		{"unable to differentiate", "Unable to differentiate"},
		{"wrong number of arguments", "Wrong number of arguments"},
	},
	generic:     "Calculation error. Check your expression.",
	prefix:      "Error: ",
	unsupported: "Unsupported operation: ",
	unknown:     "Unknown error",
	labels: map[OperationKind]string{
		Evaluate:   "Evaluate",
		Simplify:   "Simplify",
		Factor:     "Factor",
		Expand:     "Expand",
		Solve:      "Solve",
		Derivative: "Differentiate",
		Integrate:  "Integrate",
	},
}

func catalogFor(locale string) *catalog {
	if strings.HasPrefix(strings.ToLower(locale), "en") {
		return english
	}
	return french
}

// Localizer turns engine errors into short user-facing messages.
type Localizer struct {
	locale string
	cat    *catalog
}

// NewLocalizer returns a localizer for locale; anything but "en..." is
// French.
func NewLocalizer(locale string) *Localizer {
	if locale == "" {
		locale = "fr"
	}
	return &Localizer{locale: locale, cat: catalogFor(locale)}
}

func (l *Localizer) Locale() string { return l.locale }

// Translate maps err to a message: the first known phrase it contains
// (case-insensitive), else a generic message for long texts, else the text
// behind the error prefix.
func (l *Localizer) Translate(err error) string {
	if err == nil {
		return ""
	}
	var unsupported *UnsupportedOperationError
	if errors.As(err, &unsupported) {
		return l.cat.prefix + l.cat.unsupported + unsupported.Op
	}
	return l.Message(err.Error())
}

// Message localizes a raw engine message.
func (l *Localizer) Message(msg string) string {
	if msg == "" {
		return l.cat.unknown
	}
	lower := strings.ToLower(msg)
	for _, p := range l.cat.phrases {
		if strings.Contains(lower, p.match) {
			return p.text
		}
	}
	if utf8.RuneCountInString(msg) > maxVerbatimError {
		return l.cat.generic
	}
	return l.cat.prefix + msg
}
