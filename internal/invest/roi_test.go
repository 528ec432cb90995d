package invest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestCalculateROI_BondedExample(t *testing.T) {
	// price 100, 5yr return 40% (8% annual), £1000 over 5 years, bonded.
	b := CalculateROI(fp(100), fp(40), 1000, 5, StorageBonded)

	assert.Equal(t, 10, b.Bottles)
	assert.InDelta(t, 1469.33, b.ProjectedValue, 0.01)
	assert.InDelta(t, 469.33, b.GrossReturn, 0.01)
	assert.InDelta(t, 62.5, b.StorageCost, 0.01)
	assert.InDelta(t, 25.0, b.InsuranceCost, 0.01)
	assert.Equal(t, 0.0, b.DutyCost)
	assert.InDelta(t, 381.83, b.NetReturn, 0.01)
	assert.InDelta(t, 38.2, b.ROIPercent, 0.01)
	assert.Equal(t, 8.0, b.AnnualizedReturn)
}

func TestCalculateROI_PrivateCellarChargesDuty(t *testing.T) {
	b := CalculateROI(fp(100), fp(40), 1000, 5, StoragePrivateCellar)

	// 10 bottles = 0.833 cases at £8/case/year for 5 years.
	assert.InDelta(t, 33.33, b.StorageCost, 0.01)
	assert.InDelta(t, 250.0, b.DutyCost, 0.01)
	assert.InDelta(t, 469.33-33.33-25-250, b.NetReturn, 0.02)
}

func TestCalculateROI_UnknownStorageKind(t *testing.T) {
	b := CalculateROI(fp(100), fp(40), 1000, 5, "underwater")

	// Unrecognized kind gets bonded's cost rate but not bonded's duty waiver.
	assert.InDelta(t, 62.5, b.StorageCost, 0.01)
	assert.InDelta(t, 250.0, b.DutyCost, 0.01)
}

func TestCalculateROI_Fallbacks(t *testing.T) {
	// Missing price defaults to 100; missing return data defaults to 8%/yr.
	b := CalculateROI(nil, nil, 1200, 3, StorageBonded)

	assert.Equal(t, 12, b.Bottles)
	assert.Equal(t, 8.0, b.AnnualizedReturn)

	// Zero price is treated as absent, not a divide-by-zero.
	b = CalculateROI(fp(0), nil, 1200, 3, StorageBonded)
	assert.Equal(t, 12, b.Bottles)

	// A present-but-zero return figure means no data, same as nil.
	b = CalculateROI(fp(100), fp(0), 1200, 3, StorageBonded)
	assert.Equal(t, 8.0, b.AnnualizedReturn)
}

func TestCalculateROI_AnnualizesFiveYearReturn(t *testing.T) {
	b := CalculateROI(fp(200), fp(55), 1000, 5, StorageBonded)
	assert.Equal(t, 11.0, b.AnnualizedReturn)
}

func TestCalculateROI_ZeroAmount(t *testing.T) {
	b := CalculateROI(fp(100), fp(40), 0, 5, StorageBonded)
	assert.Equal(t, 0, b.Bottles)
	assert.Equal(t, 0.0, b.ROIPercent)
}
