package operator

// Default builds the OperatorTable Cantus ships out of the box: every
// bracket and operator named in spec.md §4.3, registered in the same
// precedence buckets the spec lays out.
func Default() *Table {
	t := NewTable()
	for _, b := range DefaultBrackets() {
		t.RegisterBracket(b)
	}
	registerAssignment(t)
	registerTupling(t)
	registerLogical(t)
	registerComparison(t)
	registerBitshiftConcatFrac(t)
	registerArithmetic(t)
	registerMulDivExtras(t)
	registerFactPct(t)
	return t
}
