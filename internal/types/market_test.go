package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/stocklab/pkg/errors"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func validBar(t time.Time) Bar {
	return Bar{
		Time:   t,
		Open:   100,
		High:   105,
		Low:    95,
		Close:  102,
		Volume: 1000,
	}
}

func (suite *MarketTestSuite) TestValidateValidBar() {
	bar := validBar(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	suite.NoError(bar.Validate())
}

func (suite *MarketTestSuite) TestValidateZeroVolume() {
	bar := validBar(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	bar.Volume = 0

	suite.NoError(bar.Validate())
}

func (suite *MarketTestSuite) TestValidateNonPositivePrices() {
	base := validBar(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	for _, mutate := range []func(*Bar){
		func(b *Bar) { b.Open = 0 },
		func(b *Bar) { b.High = -1 },
		func(b *Bar) { b.Low = 0 },
		func(b *Bar) { b.Close = -100 },
	} {
		bar := base
		mutate(&bar)

		err := bar.Validate()
		suite.Error(err)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
	}
}

func (suite *MarketTestSuite) TestValidateNegativeVolume() {
	bar := validBar(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	bar.Volume = -1

	err := bar.Validate()
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
}

func (suite *MarketTestSuite) TestValidateSeries() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		validBar(start),
		validBar(start.AddDate(0, 0, 1)),
		validBar(start.AddDate(0, 0, 2)),
	}

	suite.NoError(ValidateSeries(bars))
	suite.NoError(ValidateSeries(nil))
}

func (suite *MarketTestSuite) TestValidateSeriesRejectsDuplicateTimestamps() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		validBar(start),
		validBar(start),
	}

	err := ValidateSeries(bars)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
	suite.Contains(err.Error(), "strictly increasing")
}

func (suite *MarketTestSuite) TestValidateSeriesRejectsOutOfOrder() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		validBar(start.AddDate(0, 0, 1)),
		validBar(start),
	}

	err := ValidateSeries(bars)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
}
