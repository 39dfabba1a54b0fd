// Package apperr defines the closed error taxonomy shared by every layer
// of the todo API and its translation into the wire error format.
//
// A failure condition is always signaled by raising a *Failure bound to
// exactly one Kind from the catalog. Kinds carry a stable machine code,
// a default HTTP status, a message template and optional header
// directives. Codes are permanent: once published, a code's status
// family and meaning never change, and codes are never reused.
//
// Dispatch on failures is a lookup by code or family tag, never a type
// switch over an error hierarchy.
package apperr
