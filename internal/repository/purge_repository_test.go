package repository

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func planTables(steps []purgeStep) []string {
    out := make([]string, 0, len(steps))
    for _, s := range steps {
        out = append(out, s.table)
    }
    return out
}

func TestOrderedPlanDeletesDependentsFirst(t *testing.T) {
    got := planTables(orderedPlan())
    require.Len(t, got, len(countryPurgePlan))

    // clientes must come after every table that references it.
    assert.Equal(t, "clientes", got[len(got)-1])

    // carrito_peliculas references carritos, so it must come earlier.
    idx := make(map[string]int, len(got))
    for i, table := range got {
        idx[table] = i
    }
    assert.Less(t, idx["carrito_peliculas"], idx["carritos"])
    assert.Less(t, idx["transacciones"], idx["clientes"])
    assert.Less(t, idx["valoraciones"], idx["clientes"])
    assert.Less(t, idx["cliente_pelicula"], idx["clientes"])
}

func TestPlanStepsKeepsRequestedOrder(t *testing.T) {
    got := planTables(planSteps("clientes", "transacciones"))
    assert.Equal(t, []string{"clientes", "transacciones"}, got)
}

func TestPlanStepsPanicsOnUnknownTable(t *testing.T) {
    assert.Panics(t, func() { planSteps("no_such_table") })
}

func TestTwoPhaseFirstPhaseSkipsClientes(t *testing.T) {
    // The partial-commit variant must not touch clientes or
    // cliente_pelicula in phase one; that is what makes the second
    // phase fail when cliente_pelicula rows remain.
    phase1 := planTables(planSteps("valoraciones", "transacciones", "carrito_peliculas", "carritos"))
    assert.NotContains(t, phase1, "clientes")
    assert.NotContains(t, phase1, "cliente_pelicula")
}
