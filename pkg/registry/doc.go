// Package registry maps action names used by phase definitions to Go functions.
//
// Built-in actions declare the arguments they accept with a schema.Schema, so
// dsl.Validate reports a misspelled or mistyped argument before a session
// starts. Actions added with Register are not checked.
package registry
