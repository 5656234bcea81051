// Package entities contains the data model of the binding engine: resolved
// class and member bindings, the opaque foreign-object wrapper, and the
// declarative binding-table document format.
package entities
