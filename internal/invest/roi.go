// Package invest holds the pure numeric engines behind the investment tools:
// the ROI calculator and the diversified portfolio builder. No I/O here; the
// tool layer resolves wines from the store and feeds plain values in.
package invest

import "math"

// Storage kinds and their carrying cost per case per year, in GBP.
// Bonded warehousing is duty-deferred: cheaper to carry and no duty charged
// unless the wine is released.
const (
	StorageBonded        = "bonded"
	StoragePrivateCellar = "private_cellar"

	bondedCostPerCaseYear  = 15.0
	privateCostPerCaseYear = 8.0

	// insuranceRate is charged on the invested amount per year.
	insuranceRate = 0.005

	// dutyRate applies to the invested amount when storage is not bonded.
	dutyRate = 0.25

	// defaultUnitPrice stands in when a wine has no retail price.
	defaultUnitPrice = 100.0

	// defaultAnnualReturn stands in when a wine has no five-year return data.
	defaultAnnualReturn = 8.0

	bottlesPerCase = 12.0
)

// Breakdown is the ROI calculation result. Money figures are rounded to two
// decimals and rates to one decimal; intermediate math runs at full precision.
type Breakdown struct {
	Bottles          int     `json:"bottles"`
	HoldingYears     int     `json:"holdingYears"`
	StorageType      string  `json:"storageType"`
	InvestmentAmount float64 `json:"investmentAmount"`
	ProjectedValue   float64 `json:"projectedValue"`
	GrossReturn      float64 `json:"grossReturn"`
	StorageCost      float64 `json:"storageCost"`
	InsuranceCost    float64 `json:"insuranceCost"`
	DutyCost         float64 `json:"dutyCost"`
	TotalCosts       float64 `json:"totalCosts"`
	NetReturn        float64 `json:"netReturn"`
	ROIPercent       float64 `json:"roiPercentage"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
}

// CalculateROI projects the return on investing amount into a wine priced at
// unitPrice, held for years under the given storage kind.
//
// unitPrice nil or zero falls back to defaultUnitPrice. fiveYearReturn nil
// or zero falls back to defaultAnnualReturn, otherwise annualized as
// fiveYearReturn/5.
// An unrecognized storage kind gets bonded's cost rate, but duty is only
// waived for the exact bonded kind.
func CalculateROI(unitPrice, fiveYearReturn *float64, amount float64, years int, storageKind string) Breakdown {
	price := defaultUnitPrice
	if unitPrice != nil && *unitPrice > 0 {
		price = *unitPrice
	}

	// A zero figure means the catalogue has no return data for the wine,
	// not a wine that returns nothing.
	annual := defaultAnnualReturn
	if fiveYearReturn != nil && *fiveYearReturn != 0 {
		annual = *fiveYearReturn / 5
	}

	storageRate := bondedCostPerCaseYear
	if storageKind == StoragePrivateCellar {
		storageRate = privateCostPerCaseYear
	}

	bottles := int(amount / price)
	cases := float64(bottles) / bottlesPerCase

	projected := amount * math.Pow(1+annual/100, float64(years))
	gross := projected - amount

	storageCost := storageRate * cases * float64(years)
	insuranceCost := amount * insuranceRate * float64(years)
	dutyCost := 0.0
	if storageKind != StorageBonded {
		dutyCost = amount * dutyRate
	}

	totalCosts := storageCost + insuranceCost + dutyCost
	net := gross - totalCosts

	roiPercent := 0.0
	if amount > 0 {
		roiPercent = net / amount * 100
	}

	return Breakdown{
		Bottles:          bottles,
		HoldingYears:     years,
		StorageType:      storageKind,
		InvestmentAmount: amount,
		ProjectedValue:   round2(projected),
		GrossReturn:      round2(gross),
		StorageCost:      round2(storageCost),
		InsuranceCost:    round2(insuranceCost),
		DutyCost:         round2(dutyCost),
		TotalCosts:       round2(totalCosts),
		NetReturn:        round2(net),
		ROIPercent:       round1(roiPercent),
		AnnualizedReturn: round1(annual),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
