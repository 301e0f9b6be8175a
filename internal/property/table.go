package property

// cell is the (base, addon) pair stored for one kind.
type cell struct {
	base  float64
	addon float64
}

// Table holds one base/addon pair per attribute kind. It is a value type:
// assigning a Table copies it.
type Table struct {
	cells [KindCount]cell
}

// Add merges p into the table additively.
func (t *Table) Add(p Property) {
	c := &t.cells[p.Kind]
	c.base += p.Base
	c.addon += p.Addon
}

// Merge adds every entry of o into t.
func (t *Table) Merge(o Table) {
	for i := range t.cells {
		t.cells[i].base += o.cells[i].base
		t.cells[i].addon += o.cells[i].addon
	}
}

// Get returns the final value base × (1 + addon/100).
func (t Table) Get(k Kind) float64 {
	c := t.cells[k]
	return c.base * (1 + c.addon/100)
}

func (t Table) Base(k Kind) float64 { return t.cells[k].base }

func (t Table) Addon(k Kind) float64 { return t.cells[k].addon }

// SetFinal stores an absolute value and clears the addon.
func (t *Table) SetFinal(k Kind, v float64) {
	t.cells[k] = cell{base: v}
}

// Has reports whether k has any base or addon.
func (t Table) Has(k Kind) bool {
	c := t.cells[k]
	return c.base != 0 || c.addon != 0
}

// Property returns the entry for k.
func (t Table) Property(k Kind) Property {
	c := t.cells[k]
	return Property{Kind: k, Base: c.base, Addon: c.addon}
}

// DamageArray returns the final value of each damage kind, in ordinal order.
func (t Table) DamageArray() [DamageKindCount]float64 {
	var out [DamageKindCount]float64
	for i := range out {
		out[i] = t.Get(Kind(i))
	}
	return out
}

// TotalDamage sums DamageArray.
func (t Table) TotalDamage() float64 {
	sum := 0.0
	for _, v := range t.DamageArray() {
		sum += v
	}
	return sum
}

// Properties lists the non-empty entries in kind order.
func (t Table) Properties() []Property {
	var out []Property
	for k := Kind(0); k < KindCount; k++ {
		if t.Has(k) {
			out = append(out, t.Property(k))
		}
	}
	return out
}
