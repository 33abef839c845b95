package bank

// Merge appends parsed questions to existing, assigning each new question
// the next id after the largest id in existing. Existing records are not
// modified. It returns the combined collection and the number added.
func Merge(existing Collection, parsed []Question) (Collection, int) {
	out := make(Collection, 0, len(existing)+len(parsed))
	out = append(out, existing...)

	next := existing.MaxID() + 1
	for _, q := range parsed {
		q.ID = next
		next++
		out = append(out, q)
	}
	return out, len(parsed)
}

// Renumber returns a copy of c with ids reassigned 1..n in order.
func Renumber(c Collection) Collection {
	out := make(Collection, len(c))
	for i, q := range c {
		q.ID = i + 1
		out[i] = q
	}
	return out
}
