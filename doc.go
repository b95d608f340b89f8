package jadn

// Package jadn loads, normalizes and validates JADN (JSON Abstract Data
// Notation) schemas.
//
// - A stable schema model: Definition, Field, Options and the wire codec for
//   the compact option strings ("[0", "*Item", "/email", ...)
// - Construction-time verification with typed errors (ErrSchema, ErrFormat,
//   ErrOption, ErrDuplicate) aggregated per schema
// - Instance validation reporting Issues (JSON Pointer, code, message)
// - Simplify: multiplicity, anonymous type, derived enumeration and
//   MapOf-to-Map normalization passes
// - Analyze: reachability, undefined references and recursive types
//
// Design policy:
// - A Schema is immutable after construction; derived types are synthesized
//   eagerly so validation is a pure read and safe for concurrent use.
// - Writers for other representations live in subpackages (jsonschema,
//   markdown); format validators live in format.
//
// Typical usage:
//
//  s, err := jadn.Load("music.jadn")
//  inst, err := jadn.DecodeInstance(data)
//  err = s.ValidateAs(ctx, inst, "Library")
//  if iss, ok := jadn.AsIssues(err); ok {
//      for _, it := range iss { fmt.Println(it.Path, it.Code) }
//  }
//
//  flat, err := s.Simplify(jadn.PassAll)
