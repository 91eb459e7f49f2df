package fennecs

// archetypeId identifies an Archetype within a World for the lifetime of that World.
type archetypeId uint32

// Archetype is a table of entities that all carry the exact same Signature: one Storage per
// TypeExpression in the signature, plus a dedicated entity-id column, all kept the same length
// (one row per entity).
type Archetype struct {
	id      archetypeId
	sig     Signature
	rowsCol *storage[EntityId]
	columns []Storage
	index   map[TypeExpression]int

	// edges caches the archetype reached by adding or removing a single TypeExpression from
	// this one, so repeated identical structural transitions are O(1) after the first.
	addEdge    map[TypeExpression]archetypeId
	removeEdge map[TypeExpression]archetypeId
}

func newArchetype(id archetypeId, sig Signature) *Archetype {
	cols := make([]Storage, sig.Len())
	idx := make(map[TypeExpression]int, sig.Len())
	for i, e := range sig.Exprs() {
		cols[i] = newColumn(e.Type)
		idx[e] = i
	}
	return &Archetype{
		id:         id,
		sig:        sig,
		rowsCol:    newStorage[EntityId](),
		columns:    cols,
		index:      idx,
		addEdge:    make(map[TypeExpression]archetypeId),
		removeEdge: make(map[TypeExpression]archetypeId),
	}
}

// Signature returns the archetype's identity.
func (a *Archetype) Signature() Signature { return a.sig }

// Count returns the number of entities (rows) currently in the archetype.
func (a *Archetype) Count() int { return a.rowsCol.Len() }

// EntityAt returns the entity occupying row. row must be < Count().
func (a *Archetype) EntityAt(row int) EntityId { return a.rowsCol.data[row] }

// Entities returns the archetype's live entity column, in row order. The returned slice must
// not be retained past the next structural mutation of this archetype.
func (a *Archetype) Entities() []EntityId { return a.rowsCol.data[:a.rowsCol.count] }

// Column returns the storage backing the exact TypeExpression te, if the archetype carries it.
func (a *Archetype) Column(te TypeExpression) (Storage, bool) {
	i, ok := a.index[te]
	if !ok {
		return nil, false
	}
	return a.columns[i], true
}

// MatchingColumns returns every TypeExpression in the archetype's signature that satisfies
// (id, m); see Signature.MatchingColumns.
func (a *Archetype) MatchingColumns(id TypeId, m Match) []TypeExpression {
	return a.sig.MatchingColumns(id, m)
}

// AddRow appends a new row for entity e, with every column zero-valued, and returns its row
// index. Callers that are adding a component with an initial value Store it into the new row
// immediately afterward.
func (a *Archetype) AddRow(e EntityId) int {
	row, _ := a.rowsCol.Append(e, 1)
	for _, c := range a.columns {
		c.AppendZero(1)
	}
	return row
}

// RemoveRow deletes row from every column via the swap-remove rule. If another
// entity's row was moved into the vacated slot, RemoveRow reports it so the caller can correct
// that entity's directory entry.
func (a *Archetype) RemoveRow(row int) (survivorAtRow EntityId, hadSurvivor bool) {
	last := a.rowsCol.count - 1
	moved := row != last
	for _, c := range a.columns {
		c.Delete(row, 1)
	}
	a.rowsCol.Delete(row, 1)
	if moved {
		return a.rowsCol.data[row], true
	}
	return 0, false
}

// MigrateRow moves the entity at row into dst via a three-way partition: columns
// present in both signatures are moved by value, columns only in dst are zero-initialized,
// columns only in this archetype are discarded. It reports the row the entity now occupies in
// dst, and whether removing the row from this archetype swapped another entity into its place.
func (a *Archetype) MigrateRow(row int, dst *Archetype) (newRow int, survivorAtRow EntityId, hadSurvivor bool) {
	e := a.EntityAt(row)
	newRow, _ = dst.rowsCol.Append(e, 1)

	for _, dstExpr := range dst.sig.Exprs() {
		dstIdx := dst.index[dstExpr]
		if srcIdx, ok := a.index[dstExpr]; ok {
			_ = a.columns[srcIdx].Move(row, dst.columns[dstIdx])
		} else {
			dst.columns[dstIdx].AppendZero(1)
		}
	}
	for _, srcExpr := range a.sig.Exprs() {
		if _, keep := dst.index[srcExpr]; keep {
			continue
		}
		a.columns[a.index[srcExpr]].Delete(row, 1)
	}

	last := a.rowsCol.count - 1
	moved := row != last
	a.rowsCol.Delete(row, 1)
	if moved {
		return newRow, a.rowsCol.data[row], true
	}
	return newRow, 0, false
}

// Fill overwrites every row's value in the exact column te. Fails with ErrColumnMissing if the
// archetype does not carry that column.
func (a *Archetype) Fill(te TypeExpression, v any) error {
	i, ok := a.index[te]
	if !ok {
		return ErrColumnMissing
	}
	return a.columns[i].Blit(v)
}
