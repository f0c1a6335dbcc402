package ledmatrix

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

const (
	lo = gpio.Low
	hi = gpio.High
)

// rowSelect maps each row to the A, B, C, D decoder levels.
var rowSelect = [Rows][4]gpio.Level{
	0:  {lo, lo, lo, lo},
	1:  {hi, lo, lo, lo},
	2:  {lo, hi, lo, lo},
	3:  {hi, hi, lo, lo},
	4:  {lo, lo, hi, lo},
	5:  {hi, lo, hi, lo},
	6:  {lo, hi, hi, lo},
	7:  {hi, hi, hi, lo},
	8:  {lo, lo, lo, hi},
	9:  {hi, lo, lo, hi},
	10: {lo, hi, lo, hi},
	11: {hi, hi, lo, hi},
	12: {lo, lo, hi, hi},
	13: {hi, lo, hi, hi},
	14: {lo, hi, hi, hi},
	15: {hi, hi, hi, hi},
}

// RowLevels returns the A, B, C, D levels that select row.
func RowLevels(row int) [4]gpio.Level {
	if row < 0 || row >= Rows {
		panic(fmt.Sprintf("ledmatrix: row %d out of range", row))
	}
	return rowSelect[row]
}
