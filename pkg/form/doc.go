// Package form interprets a schema.Form as a paginated wizard.
//
// A Session holds the visible section index, an accumulator of answers keyed
// by field id, and the error mapping for the last validation attempt. Next
// and Submit validate only the visible section and refuse to move while any
// field fails; Prev never validates. Answers are typed: checkbox groups hold
// a MultiValue, every other field a StringValue.
//
//	session, err := form.NewSession(schemaForm, form.WithSubmitter(sink))
//	_ = session.SetText("name", "Alice")
//	if err := session.Next(); errors.Is(err, form.ErrValidation) {
//		// render session.SectionErrors()
//	}
package form
