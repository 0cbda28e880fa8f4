package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type EMATestSuite struct {
	suite.Suite
}

func TestEMASuite(t *testing.T) {
	suite.Run(t, new(EMATestSuite))
}

func (suite *EMATestSuite) TestAdjustedWeighting() {
	// span=3 gives alpha=0.5. With adjusted weighting the first values are
	// weighted averages of the whole history, not a running recurrence
	// seeded at values[0]:
	//   ema[0] = 1
	//   ema[1] = (2 + 0.5*1) / (1 + 0.5)        = 5/3
	//   ema[2] = (3 + 0.5*2 + 0.25*1) / 1.75    = 17/7
	out := calculateEMA([]float64{1, 2, 3}, 3)

	suite.Len(out, 3)
	suite.InDelta(1.0, out[0], 1e-12)
	suite.InDelta(5.0/3.0, out[1], 1e-12)
	suite.InDelta(17.0/7.0, out[2], 1e-12)
}

func (suite *EMATestSuite) TestConstantSeries() {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 50
	}

	for _, span := range []int{2, 12, 26} {
		out := calculateEMA(values, span)
		for i, v := range out {
			suite.InDelta(50.0, v, 1e-9, "span %d index %d", span, i)
		}
	}
}

func (suite *EMATestSuite) TestDefinedAtEveryIndex() {
	out := calculateEMA([]float64{3, 1, 4, 1, 5, 9, 2, 6}, 5)

	for i, v := range out {
		suite.False(math.IsNaN(v), "index %d", i)
	}
}

func (suite *EMATestSuite) TestTracksTrendBetweenMinAndMax() {
	values := []float64{10, 12, 14, 16, 18, 20, 22, 24}
	out := calculateEMA(values, 4)

	// The EMA of a rising series lags the price but stays within the
	// observed range, and each step moves it upward.
	for i := 1; i < len(values); i++ {
		suite.Greater(out[i], out[i-1])
		suite.Less(out[i], values[i])
		suite.Greater(out[i], values[0])
	}
}

func (suite *EMATestSuite) TestLeadingNaNInputsPropagate() {
	values := []float64{math.NaN(), math.NaN(), 10, 11}
	out := calculateEMA(values, 3)

	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
	suite.InDelta(10.0, out[2], 1e-12)
	suite.False(math.IsNaN(out[3]))
}

func (suite *EMATestSuite) TestEmptyInput() {
	suite.Empty(calculateEMA(nil, 5))
}

type SMATestSuite struct {
	suite.Suite
}

func TestSMASuite(t *testing.T) {
	suite.Run(t, new(SMATestSuite))
}

func (suite *SMATestSuite) TestWarmupIsNaN() {
	out := calculateSMA([]float64{1, 2, 3, 4, 5}, 3)

	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
	suite.InDelta(2.0, out[2], 1e-12)
	suite.InDelta(3.0, out[3], 1e-12)
	suite.InDelta(4.0, out[4], 1e-12)
}

func (suite *SMATestSuite) TestPeriodOne() {
	values := []float64{7, 8, 9}
	out := calculateSMA(values, 1)

	for i, v := range values {
		suite.InDelta(v, out[i], 1e-12)
	}
}
