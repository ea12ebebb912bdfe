package repository

import (
    "context"
    "database/sql"
    "fmt"
    "sort"
)

// PurgeRepo removes all data belonging to clients of a given country.
// Three variants exist on purpose: the ordered one is correct, the
// clients-first one demonstrates the engine rejecting a foreign key
// violation, and the two-phase one demonstrates a partial commit. The
// incorrect variants must keep their broken behavior; they document how
// the schema's referential integrity reacts, so do not "fix" them.
type PurgeRepo struct {
    db *sql.DB
}

// NewPurgeRepo returns a new PurgeRepo bound to the given database.
func NewPurgeRepo(db *sql.DB) *PurgeRepo { return &PurgeRepo{db: db} }

// purgeStep is one country-scoped delete. Rank encodes the foreign key
// dependency depth: a table must be cleared before any table it
// references, so execution order is derived by sorting on rank instead
// of being hand-maintained per endpoint.
type purgeStep struct {
    table string
    stmt  string
    rank  int
}

// countryPurgePlan lists every table holding country-scoped data. The
// clientes step carries the highest rank because every other table
// references it.
var countryPurgePlan = []purgeStep{
    {
        table: "cliente_pelicula",
        rank:  1,
        stmt: `DELETE FROM cliente_pelicula
               WHERE cliente_id IN (SELECT id FROM clientes WHERE pais = ?)`,
    },
    {
        table: "valoraciones",
        rank:  1,
        stmt: `DELETE FROM valoraciones
               WHERE cliente_id IN (SELECT id FROM clientes WHERE pais = ?)`,
    },
    {
        table: "transacciones",
        rank:  1,
        stmt: `DELETE FROM transacciones
               WHERE cliente_id IN (SELECT id FROM clientes WHERE pais = ?)`,
    },
    {
        table: "carrito_peliculas",
        rank:  2,
        stmt: `DELETE FROM carrito_peliculas
               WHERE carrito_id IN (
                   SELECT id FROM carritos
                   WHERE cliente_id IN (SELECT id FROM clientes WHERE pais = ?)
               )`,
    },
    {
        table: "carritos",
        rank:  3,
        stmt: `DELETE FROM carritos
               WHERE cliente_id IN (SELECT id FROM clientes WHERE pais = ?)`,
    },
    {
        table: "clientes",
        rank:  4,
        stmt:  `DELETE FROM clientes WHERE pais = ?`,
    },
}

// orderedPlan returns the purge steps sorted by dependency rank,
// preserving the declaration order within a rank.
func orderedPlan() []purgeStep {
    steps := make([]purgeStep, len(countryPurgePlan))
    copy(steps, countryPurgePlan)
    sort.SliceStable(steps, func(i, j int) bool { return steps[i].rank < steps[j].rank })
    return steps
}

// planSteps returns the steps for the named tables in the given order.
// It panics on unknown table names; the variants only reference tables
// declared in countryPurgePlan.
func planSteps(tables ...string) []purgeStep {
    byName := make(map[string]purgeStep, len(countryPurgePlan))
    for _, s := range countryPurgePlan {
        byName[s.table] = s
    }
    out := make([]purgeStep, 0, len(tables))
    for _, t := range tables {
        s, ok := byName[t]
        if !ok {
            panic(fmt.Sprintf("unknown purge table %q", t))
        }
        out = append(out, s)
    }
    return out
}

// DeleteCountryOrdered is the correct variant: all six deletes run in
// dependency order inside one transaction. Any failure rolls the whole
// transaction back and is returned to the caller.
func (r *PurgeRepo) DeleteCountryOrdered(ctx context.Context, country string) error {
    return r.runInTx(ctx, country, orderedPlan())
}

// DeleteCountryClientsFirst is the intentionally incorrect variant: it
// deletes clientes before its dependents, which the engine rejects with
// a foreign key error whenever any dependent rows exist, rolling the
// transaction back untouched. The error carries the engine's cause
// text.
func (r *PurgeRepo) DeleteCountryClientsFirst(ctx context.Context, country string) error {
    return r.runInTx(ctx, country, planSteps("clientes", "transacciones"))
}

// TwoPhaseOutcome describes what DeleteCountryTwoPhase did. Phase one
// always either committed or aborted the whole call; RolledBack refers
// to phase two only.
type TwoPhaseOutcome struct {
    RolledBack bool   // phase two hit an error and was rolled back
    Detail     string // human-readable description of phase two's outcome
}

// DeleteCountryTwoPhase is the partial-commit variant. Phase one
// deletes valoraciones, transacciones, carrito_peliculas and carritos
// in its own transaction and commits; a phase-one failure aborts the
// call with an error and phase two never runs. Phase two then attempts
// to delete clientes in a second transaction WITHOUT clearing
// cliente_pelicula first: if any such rows remain the engine rejects
// the delete, phase two alone is rolled back and phase one's commit
// stands. Phase two's outcome is reported in the returned
// TwoPhaseOutcome, never as an error.
func (r *PurgeRepo) DeleteCountryTwoPhase(ctx context.Context, country string) (*TwoPhaseOutcome, error) {
    phase1 := planSteps("valoraciones", "transacciones", "carrito_peliculas", "carritos")
    if err := r.runInTx(ctx, country, phase1); err != nil {
        return nil, err
    }
    if err := r.runInTx(ctx, country, planSteps("clientes")); err != nil {
        return &TwoPhaseOutcome{
            RolledBack: true,
            Detail:     fmt.Sprintf("clientes delete rolled back, earlier deletes kept: %v", err),
        }, nil
    }
    return &TwoPhaseOutcome{Detail: "no error, all rows deleted (check FK constraints)"}, nil
}

// runInTx executes the given steps in order inside one transaction,
// rolling back on the first failure.
func (r *PurgeRepo) runInTx(ctx context.Context, country string, steps []purgeStep) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    for _, s := range steps {
        if _, err := tx.ExecContext(ctx, s.stmt, country); err != nil {
            return fmt.Errorf("delete %s: %w", s.table, err)
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}
