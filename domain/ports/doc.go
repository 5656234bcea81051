// Package ports defines the engine's boundary interfaces toward a foreign
// object runtime, the opaque handle types crossing that boundary, and the
// 64-bit call-slot value encoding. Infrastructure adapters implement Env;
// the engine depends only on these abstractions.
package ports
