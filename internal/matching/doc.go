// Package matching implements the donor compatibility matcher: a pure
// function from a blood request and a candidate pool to a ranked list of
// eligible donors. It performs no I/O and holds no state beyond the static
// transfusion compatibility table.
package matching
