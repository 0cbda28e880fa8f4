package marketdata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/stocklab/pkg/errors"
)

type CSVTestSuite struct {
	suite.Suite
}

func TestCSVSuite(t *testing.T) {
	suite.Run(t, new(CSVTestSuite))
}

func (suite *CSVTestSuite) writeFile(content string) string {
	path := filepath.Join(suite.T().TempDir(), "data.csv")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))

	return path
}

func (suite *CSVTestSuite) TestLoadValidFile() {
	path := suite.writeFile(`time,open,high,low,close,volume
2024-01-02,100,105,99,102,10000
2024-01-03,102,106,101,104,12000
2024-01-04,104,107,103,105,9000
`)

	bars, err := LoadCSV(path)

	suite.NoError(err)
	suite.Require().Len(bars, 3)
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	suite.Equal(100.0, bars[0].Open)
	suite.Equal(105.0, bars[0].High)
	suite.Equal(99.0, bars[0].Low)
	suite.Equal(102.0, bars[0].Close)
	suite.Equal(10000.0, bars[0].Volume)
}

func (suite *CSVTestSuite) TestDateColumnAlias() {
	path := suite.writeFile(`Date,Open,High,Low,Close,Volume
2024-01-02,100,105,99,102,10000
2024-01-03,102,106,101,104,12000
`)

	bars, err := LoadCSV(path)

	suite.NoError(err)
	suite.Len(bars, 2)
}

func (suite *CSVTestSuite) TestColumnsInAnyOrder() {
	path := suite.writeFile(`volume,close,low,high,open,time
10000,102,99,105,100,2024-01-02
12000,104,101,106,102,2024-01-03
`)

	bars, err := LoadCSV(path)

	suite.NoError(err)
	suite.Require().Len(bars, 2)
	suite.Equal(102.0, bars[0].Close)
}

func (suite *CSVTestSuite) TestTimestampFormats() {
	path := suite.writeFile(`time,open,high,low,close,volume
2024-01-02T09:30:00Z,100,105,99,102,10000
2024-01-02 10:30:00,102,106,101,104,12000
`)

	bars, err := LoadCSV(path)

	suite.NoError(err)
	suite.Require().Len(bars, 2)
	suite.Equal(9, bars[0].Time.Hour())
	suite.Equal(10, bars[1].Time.Hour())
}

func (suite *CSVTestSuite) TestMissingColumn() {
	path := suite.writeFile(`time,open,high,low,close
2024-01-02,100,105,99,102
`)

	_, err := LoadCSV(path)

	suite.Error(err)
	suite.True(errors.IsMissingColumnError(err))
	suite.Contains(err.Error(), "volume")
}

func (suite *CSVTestSuite) TestMalformedCellNamesRow() {
	path := suite.writeFile(`time,open,high,low,close,volume
2024-01-02,100,105,99,102,10000
2024-01-03,102,not-a-number,101,104,12000
`)

	_, err := LoadCSV(path)

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
	suite.Contains(err.Error(), "row 2")
}

func (suite *CSVTestSuite) TestMalformedTimestamp() {
	path := suite.writeFile(`time,open,high,low,close,volume
yesterday,100,105,99,102,10000
`)

	_, err := LoadCSV(path)

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataParseFailed))
}

func (suite *CSVTestSuite) TestEmptyFileHeaderOnly() {
	path := suite.writeFile("time,open,high,low,close,volume\n")

	_, err := LoadCSV(path)

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoDataFound))
}

func (suite *CSVTestSuite) TestRejectsOutOfOrderRows() {
	path := suite.writeFile(`time,open,high,low,close,volume
2024-01-03,102,106,101,104,12000
2024-01-02,100,105,99,102,10000
`)

	_, err := LoadCSV(path)

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidBar))
}

func (suite *CSVTestSuite) TestMissingFile() {
	_, err := LoadCSV(filepath.Join(suite.T().TempDir(), "absent.csv"))

	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}
