package dataset

import (
	"math/rand/v2"
	"strconv"
)

// Column names of the sample table.
const (
	ColMonth    = "Month"
	ColSales    = "Sales"
	ColExpenses = "Expenses"
)

// Value ranges of the sample table; lower bound inclusive, upper exclusive.
const (
	SalesMin    = 100
	SalesMax    = 500
	ExpensesMin = 50
	ExpensesMax = 300
)

// Months are the fixed, ordered category labels of the sample table.
var Months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

// Sample generates a fresh six-row sales table. A nil rng uses the global
// source.
func Sample(rng *rand.Rand) Table {
	intn := rand.IntN
	if rng != nil {
		intn = rng.IntN
	}
	sales := make([]int, len(Months))
	for i := range sales {
		sales[i] = SalesMin + intn(SalesMax-SalesMin)
	}
	expenses := make([]int, len(Months))
	for i := range expenses {
		expenses[i] = ExpensesMin + intn(ExpensesMax-ExpensesMin)
	}

	t := Table{
		Columns: []string{ColMonth, ColSales, ColExpenses},
		Rows:    make([][]string, len(Months)),
	}
	for i, m := range Months {
		t.Rows[i] = []string{m, strconv.Itoa(sales[i]), strconv.Itoa(expenses[i])}
	}
	return t
}

// NewRand returns a generator for one render pass. seed 0 means a random seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
