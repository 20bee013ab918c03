// Package core defines the canonical, backend-agnostic expression tree of formulate.
//
// This package contains:
//   - Expression nodes (Expression, Variable, Constant) behind the sealed Expr interface
//   - Builders (Add, Sqrt, Where, ...) that lift plain Go values into nodes
//   - Structural equality and tree walking
//   - The error kinds shared by the parser, the serializer and the translator
//
// The Golden Rule: pkg/core imports ONLY pkg/ident, pkg/token and stdlib.
// Backends, the parser and the serializer depend on core, not the reverse.
package core
