package compiler

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/faktorips/fl/pkg/types"
)

// messageTexts holds the format of every message code per language.
var messageTexts = map[types.Code]map[language.Tag]string{
	types.CodeLexicalError: {
		language.English: "The expression contains an invalid token: %s",
		language.German:  "Der Ausdruck enthält ein ungültiges Token: %s",
	},
	types.CodeSyntaxError: {
		language.English: "The expression is not well-formed: %s",
		language.German:  "Der Ausdruck ist syntaktisch falsch: %s",
	},
	types.CodeUndefinedOperator: {
		language.English: "The operator %s is undefined for the type(s) %s.",
		language.German:  "Der Operator %s ist für den/die Typ(en) %s nicht definiert.",
	},
	types.CodeUndefinedIdentifier: {
		language.English: "The identifier %s is undefined.",
		language.German:  "Der Bezeichner %s ist nicht definiert.",
	},
	types.CodeUndefinedFunction: {
		language.English: "The function %s is undefined.",
		language.German:  "Die Funktion %s ist nicht definiert.",
	},
	types.CodeWrongArgumentTypes: {
		language.English: "The function %s cannot be called with the argument types %s.",
		language.German:  "Die Funktion %s kann nicht mit den Argumenttypen %s aufgerufen werden.",
	},
	types.CodeAmbiguousFunctionCall: {
		language.English: "The call %s is ambiguous, candidates are: %s.",
		language.German:  "Der Aufruf %s ist mehrdeutig, mögliche Funktionen: %s.",
	},
}

var messages = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for code, texts := range messageTexts {
		for tag, text := range texts {
			if err := b.SetString(tag, string(code), text); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Languages returns the languages message texts are available in.
func Languages() []language.Tag {
	return messages.Languages()
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// Message creates an error message with the localized text of code.
// Identifier resolvers use it to report UNDEFINED_IDENTIFIER in the
// compiler's locale.
func (c *Compiler) Message(code types.Code, position int, args ...any) *types.Message {
	return newMessage(newPrinter(c.opts.Locale), code, position, args...)
}

func newMessage(p *message.Printer, code types.Code, position int, args ...any) *types.Message {
	return types.NewError(code, p.Sprintf(string(code), args...), position)
}

func typeNames(dts ...*types.Datatype) string {
	names := make([]string, len(dts))
	for i, dt := range dts {
		names[i] = dt.Name()
	}
	return strings.Join(names, ", ")
}
