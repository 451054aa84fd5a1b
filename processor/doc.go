// Package processor shapes in-memory record slices for list endpoints. A
// request runs three stages in order: filter (every descriptor must hold,
// evaluated by parallel workers for large inputs), stable multi-key sort, and
// 1-based pagination. Fields are resolved by name, case-insensitively, against
// the Go field name or its json tag.
//
// Without sort descriptors records keep their input order.
//
// Interface-typed fields compare by the kind of value they hold. When two
// values of different kinds meet they compare numerically if both read as
// numbers and as text otherwise.
package processor
