package usdc

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/suite"
)

type usdcSuite struct {
	suite.Suite
}

func TestUsdcSuite(t *testing.T) {
	suite.Run(t, new(usdcSuite))
}

func (s *usdcSuite) TestToUnits() {
	tests := []struct {
		desc    string
		display string
		want    int64
		wantErr bool
	}{
		{desc: "whole amount", display: "5", want: 5_000_000},
		{desc: "two decimals", display: "5.00", want: 5_000_000},
		{desc: "full precision", display: "4.999999", want: 4_999_999},
		{desc: "sub-unit precision rejected", display: "0.0000001", wantErr: true},
		{desc: "not a number", display: "five", wantErr: true},
	}
	for _, t := range tests {
		got, err := ToUnits(t.display)
		if t.wantErr {
			s.Error(err, t.desc)
			continue
		}
		s.NoError(err, t.desc)
		s.Equal(t.want, got.Int64(), t.desc)
	}
}

func (s *usdcSuite) TestFormat() {
	s.Equal("5", Format(big.NewInt(5_000_000)))
	s.Equal("4.999999", Format(big.NewInt(4_999_999)))
	s.Equal("0.5", Format(big.NewInt(500_000)))
}
