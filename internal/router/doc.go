// Package router implements an ordered-scan HTTP request router.
//
// Routes pair an HTTP method with a path pattern made of /-separated
// segments. A segment is a literal, a single-segment wildcard "*", a
// multi-segment wildcard "**", or a literal with a leading and/or trailing
// "*" matched by suffix, prefix, or substring. Routes are tried in
// registration order and the first route matching both path and method
// wins.
//
// A Router is built once, before serving begins, and must not be modified
// afterwards. Dispatch takes no locks; concurrent dispatches are safe
// because the route table is read-only once published. Replacing the table
// at runtime is the serving layer's job and is done by swapping whole
// Router values, never by mutating a live one.
package router
