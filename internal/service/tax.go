package service

// taxBracket is one slab of the progressive schedule: rate applies to
// income above floor, up to the next slab's floor.
type taxBracket struct {
	floor float64
	rate  float64
}

// Nepal individual income tax slabs (annual, NPR).
var taxBrackets = []taxBracket{
	{floor: 0, rate: 0.01},
	{floor: 500_000, rate: 0.10},
	{floor: 700_000, rate: 0.20},
	{floor: 1_000_000, rate: 0.30},
	{floor: 2_000_000, rate: 0.36},
}

// ComputeAnnualTax applies the fixed progressive schedule to an annual
// salary. Negative salaries tax at zero.
func ComputeAnnualTax(salary float64) float64 {
	if salary <= 0 {
		return 0
	}
	var tax float64
	for i, b := range taxBrackets {
		if salary <= b.floor {
			break
		}
		upper := salary
		if i+1 < len(taxBrackets) && taxBrackets[i+1].floor < salary {
			upper = taxBrackets[i+1].floor
		}
		tax += (upper - b.floor) * b.rate
	}
	return tax
}
