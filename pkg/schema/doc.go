// Package schema describes and checks the arguments of an action.
//
// A Schema maps argument names to fields. Definitions are checked when they
// are validated, so a misspelled or mistyped argument is reported before the
// session starts instead of failing inside a callback:
//
//	s := schema.Schema{
//	    "message": schema.Required(schema.String()),
//	    "level":   schema.Optional(schema.String()),
//	}
//	err := schema.Validate(s, map[string]any{"mesage": "hi"})
//	// field "message": required
//	// field "mesage": unknown argument
//
// A nil Schema accepts anything; an empty one accepts no arguments.
package schema
