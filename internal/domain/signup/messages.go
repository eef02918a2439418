package signup

import "golang.org/x/text/language"

// Messages maps a failure kind to the text shown under the input.
type Messages map[Kind]string

var Spanish = Messages{
	KindTooShort:          "El nombre debe tener al menos 2 caracteres.",
	KindInvalidFormat:     "Debe ser un email válido.",
	KindPasswordMinLength: "La contraseña debe tener al menos 8 caracteres.",
	KindPasswordUpper:     "Debe tener al menos una letra mayúscula.",
	KindPasswordLower:     "Debe tener al menos una letra minúscula.",
	KindPasswordDigit:     "Debe tener al menos un número.",
	KindMismatch:          "Las contraseñas no coinciden.",
	KindRequired:          "Debe seleccionar un país.",
	KindMustAccept:        "Debe aceptar los términos y condiciones.",
}

var English = Messages{
	KindTooShort:          "Name must be at least 2 characters.",
	KindInvalidFormat:     "Must be a valid email.",
	KindPasswordMinLength: "Password must be at least 8 characters.",
	KindPasswordUpper:     "Must contain at least one uppercase letter.",
	KindPasswordLower:     "Must contain at least one lowercase letter.",
	KindPasswordDigit:     "Must contain at least one number.",
	KindMismatch:          "Passwords do not match.",
	KindRequired:          "You must select a country.",
	KindMustAccept:        "You must accept the terms and conditions.",
}

func (m Messages) Message(kind Kind) string {
	if msg, ok := m[kind]; ok {
		return msg
	}
	return string(kind)
}

// Catalog picks a message set from an Accept-Language header.
type Catalog struct {
	matcher  language.Matcher
	tags     []language.Tag
	messages []Messages
}

// NewCatalog builds a catalog whose fallback is def (Spanish or English).
func NewCatalog(def language.Tag) *Catalog {
	tags := []language.Tag{language.Spanish, language.English}
	msgs := []Messages{Spanish, English}

	if base, _ := def.Base(); base.String() == "en" {
		tags[0], tags[1] = tags[1], tags[0]
		msgs[0], msgs[1] = msgs[1], msgs[0]
	}

	return &Catalog{
		matcher:  language.NewMatcher(tags),
		tags:     tags,
		messages: msgs,
	}
}

// Lookup returns the messages and the supported tag they are written in.
func (c *Catalog) Lookup(acceptLanguage string) (Messages, language.Tag) {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.messages[0], c.tags[0]
	}

	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.messages[0], c.tags[0]
	}

	return c.messages[idx], c.tags[idx]
}
