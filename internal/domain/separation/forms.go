package separation

import "separation-engine/internal/domain/document"

// ResolveForm picks the form a case should hold for one slot, in precedence
// order: a freshly uploaded file, a case-specific form already chosen, the
// global default, a previously applied template, nothing. ok is false when no
// form is available.
func ResolveForm(upload *document.Ref, current ProvidedForm, def document.Ref) (form ProvidedForm, ok bool) {
	switch {
	case upload != nil && !upload.IsZero():
		return ProvidedForm{Document: *upload}, true
	case !current.Document.IsZero() && !current.FromTemplate:
		return current, true
	case !def.IsZero():
		return ProvidedForm{Document: def, FromTemplate: true}, true
	case !current.Document.IsZero():
		return current, true
	}
	return ProvidedForm{}, false
}
