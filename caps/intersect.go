package caps

// Intersect computes the caps accepted by both sides. For every pair of
// structures with a matching media-type name, the field-wise intersection is
// taken; a pair with any contradictory field contributes nothing. Results are
// ordered by (receiver index, argument index) ascending. An empty result
// means the two sides are incompatible.
func (c Caps) Intersect(other Caps) Caps {
	// ANY is the identity element
	if c.Any {
		return other
	}
	if other.Any {
		return c
	}

	var out []Structure
	for _, a := range c.Structures {
		for _, b := range other.Structures {
			if a.Name != b.Name {
				continue
			}
			if merged, ok := a.intersect(b); ok {
				out = append(out, merged)
			}
		}
	}
	return Caps{Structures: out}
}

// CanIntersect reports whether the two caps share at least one format
func (c Caps) CanIntersect(other Caps) bool {
	if c.Any {
		return !other.IsEmpty()
	}
	if other.Any {
		return !c.IsEmpty()
	}
	for _, a := range c.Structures {
		for _, b := range other.Structures {
			if a.Name != b.Name {
				continue
			}
			if _, ok := a.intersect(b); ok {
				return true
			}
		}
	}
	return false
}

// intersect merges two same-named structures field by field. A field present
// on only one side is unconstrained on the other and carries over unchanged.
// Returns false when any shared field has an empty intersection.
func (a Structure) intersect(b Structure) (Structure, bool) {
	out := Structure{Name: a.Name}

	for _, f := range a.Fields {
		bv, ok := b.Lookup(f.Name)
		if !ok {
			out.Fields = append(out.Fields, f)
			continue
		}
		merged, ok := f.Value.Intersect(bv)
		if !ok {
			return Structure{}, false
		}
		out.Fields = append(out.Fields, Field{Name: f.Name, Value: merged})
	}

	// Fields only b constrains
	for _, f := range b.Fields {
		if _, ok := a.Lookup(f.Name); !ok {
			out.Fields = append(out.Fields, f)
		}
	}

	return out, true
}

// Intersect computes the intersection of two field values. The second return
// is false when the intersection is empty. Ranges collapse to a scalar when
// the bounds meet; lists collapse to their single remaining member.
func (v Value) Intersect(other Value) (Value, bool) {
	// Normalize so a list is never on the right of a non-list
	if other.Kind == KindList && v.Kind != KindList {
		return other.Intersect(v)
	}
	// Likewise keep ranges on the left of scalars
	if v.Kind != KindList && isRangeKind(other.Kind) && !isRangeKind(v.Kind) {
		return other.Intersect(v)
	}

	switch v.Kind {
	case KindList:
		return v.intersectList(other)
	case KindIntRange:
		return v.intersectIntRange(other)
	case KindFractionRange:
		return v.intersectFractionRange(other)
	default:
		// scalar vs scalar
		if v.Equal(other) {
			return v, true
		}
		return Value{}, false
	}
}

func isRangeKind(k Kind) bool {
	return k == KindIntRange || k == KindFractionRange
}

func (v Value) intersectList(other Value) (Value, bool) {
	if other.Kind == KindList {
		var members []Value
		for _, m := range v.List {
			for _, o := range other.List {
				if m.Equal(o) {
					members = append(members, m)
					break
				}
			}
		}
		return listResult(members)
	}

	// list vs scalar or range: keep members the other side accepts
	var members []Value
	for _, m := range v.List {
		if _, ok := m.Intersect(other); ok {
			members = append(members, m)
		}
	}
	return listResult(members)
}

func listResult(members []Value) (Value, bool) {
	switch len(members) {
	case 0:
		return Value{}, false
	case 1:
		return members[0], true
	default:
		return Value{Kind: KindList, List: members}, true
	}
}

func (v Value) intersectIntRange(other Value) (Value, bool) {
	switch other.Kind {
	case KindIntRange:
		lo := max(v.IntMin, other.IntMin)
		hi := min(v.IntMax, other.IntMax)
		if lo > hi {
			return Value{}, false
		}
		if lo == hi {
			return Value{Kind: KindInt, Int: lo}, true
		}
		return Value{Kind: KindIntRange, IntMin: lo, IntMax: hi}, true
	case KindInt:
		if other.Int >= v.IntMin && other.Int <= v.IntMax {
			return other, true
		}
		return Value{}, false
	default:
		return Value{}, false
	}
}

func (v Value) intersectFractionRange(other Value) (Value, bool) {
	switch other.Kind {
	case KindFractionRange:
		lo := v.FracMin
		if lo.Less(other.FracMin) {
			lo = other.FracMin
		}
		hi := v.FracMax
		if other.FracMax.Less(hi) {
			hi = other.FracMax
		}
		if hi.Less(lo) {
			return Value{}, false
		}
		if lo.Equal(hi) {
			return Value{Kind: KindFraction, Frac: lo}, true
		}
		return Value{Kind: KindFractionRange, FracMin: lo, FracMax: hi}, true
	case KindFraction:
		if other.Frac.Less(v.FracMin) || v.FracMax.Less(other.Frac) {
			return Value{}, false
		}
		return other, true
	default:
		return Value{}, false
	}
}
