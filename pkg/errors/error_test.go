package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNew() {
	err := New(ErrCodeInvalidParameter, "bad parameter")

	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("bad parameter", err.Message)
	suite.Nil(err.Cause)
	suite.Contains(err.Error(), "bad parameter")
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeUnknownStrategy, "unknown strategy %q", "momentum")

	suite.Equal(ErrCodeUnknownStrategy, err.Code)
	suite.Contains(err.Message, `"momentum"`)
}

func (suite *ErrorTestSuite) TestWrapPreservesCause() {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)

	suite.Equal(cause, err.Unwrap())
	suite.Contains(err.Error(), "underlying failure")
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestWrapf() {
	cause := fmt.Errorf("disk full")
	err := Wrapf(ErrCodeWriteFailed, cause, "failed to write %s", "report.yaml")

	suite.Equal(ErrCodeWriteFailed, err.Code)
	suite.Contains(err.Message, "report.yaml")
	suite.Equal(cause, err.Unwrap())
}

func (suite *ErrorTestSuite) TestGetCode() {
	suite.Equal(ErrCodeInvalidPeriod, GetCode(New(ErrCodeInvalidPeriod, "period must be positive")))
	suite.Equal(ErrCodeUnknown, GetCode(fmt.Errorf("plain error")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestGetCodeThroughChain() {
	inner := New(ErrCodeMissingColumn, "column gone")
	outer := fmt.Errorf("loading data: %w", inner)

	suite.Equal(ErrCodeMissingColumn, GetCode(outer))
	suite.True(HasCode(outer, ErrCodeMissingColumn))
	suite.False(HasCode(outer, ErrCodeQueryFailed))
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(51, 20, "AAPL", "need %d bars, have %d", 51, 20)

	suite.Equal(51, err.Required)
	suite.Equal(20, err.Actual)
	suite.Equal("AAPL", err.Symbol)
	suite.Contains(err.Error(), "need 51 bars")

	wrapped := fmt.Errorf("run failed: %w", err)
	suite.True(IsInsufficientDataError(wrapped))
	suite.False(IsInsufficientDataError(fmt.Errorf("other")))
}

func (suite *ErrorTestSuite) TestMissingColumnError() {
	err := NewMissingColumnError("volume")

	suite.Equal("volume", err.Column)
	suite.Contains(err.Error(), `"volume"`)

	wrapped := fmt.Errorf("csv load: %w", err)
	suite.True(IsMissingColumnError(wrapped))
	suite.False(IsMissingColumnError(New(ErrCodeDataParseFailed, "bad cell")))
}
