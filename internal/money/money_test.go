package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSideString(t *testing.T) {
	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
}

func TestTimeInForceString(t *testing.T) {
	assert.Equal(t, "gtc", GTC.String())
	assert.Equal(t, "ioc", IOC.String())
	assert.Equal(t, "fok", FOK.String())
	assert.Equal(t, "day", Day.String())
}

func TestRejectionSentinelsAreStable(t *testing.T) {
	assert.Equal(t, "OrderNotActive", ErrOrderNotActive.Error())
	assert.Equal(t, "FillOrKillUnfillable", ErrFillOrKillUnfillable.Error())
	assert.Equal(t, "InvalidPrice", ErrInvalidPrice.Error())
	assert.Equal(t, "InvalidQuantity", ErrInvalidQuantity.Error())
}
