package itch

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"nanobook/internal/engine"
	"nanobook/internal/money"
)

// record builds a length-prefixed ITCH record from a payload.
func record(payload []byte) []byte {
	var buf bytes.Buffer
	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], uint16(len(payload)))
	buf.Write(lenPrefix[:])
	buf.Write(payload)
	return buf.Bytes()
}

// header writes the common type+locate+tracking+timestamp prefix every
// ITCH-5.0 message shares, matching test_itch.py's struct.pack layout.
func header(p []byte, msgType byte) {
	p[0] = msgType
	binary.BigEndian.PutUint16(p[1:3], 1) // stock locate
	binary.BigEndian.PutUint16(p[3:5], 0) // tracking number
	// p[5:11] timestamp left zero
}

func addOrderPayload(ref uint64, side byte, shares uint32, symbol string, itchPrice uint32) []byte {
	p := make([]byte, sizeAddOrder)
	header(p, 'A')
	binary.BigEndian.PutUint64(p[11:19], ref)
	p[19] = side
	binary.BigEndian.PutUint32(p[20:24], shares)
	copy(p[24:32], []byte(symbol))
	binary.BigEndian.PutUint32(p[32:36], itchPrice)
	return p
}

// S5 — ITCH round trip.
func TestDecodeAddOrderRoundTrip(t *testing.T) {
	payload := addOrderPayload(1, 'B', 100, "AAPL    ", 1000000)
	stream := bytes.NewReader(record(payload))

	dec := NewDecoder(stream)
	rec, err := dec.Next()
	assert.NoError(t, err)

	assert.Equal(t, "AAPL", rec.Symbol)
	assert.Equal(t, engine.EventSubmitLimit, rec.Event.Kind)
	assert.Equal(t, money.Buy, rec.Event.Side)
	assert.Equal(t, money.Price(10000), *rec.Event.Price)
	assert.Equal(t, money.Quantity(100), rec.Event.Quantity)
	assert.Equal(t, money.GTC, rec.Event.TimeInForce)
}

func TestDecodeSellAddOrder(t *testing.T) {
	payload := addOrderPayload(2, 'S', 50, "MSFT    ", 500000)
	stream := bytes.NewReader(record(payload))

	dec := NewDecoder(stream)
	rec, err := dec.Next()
	assert.NoError(t, err)
	assert.Equal(t, money.Sell, rec.Event.Side)
	assert.Equal(t, money.Price(5000), *rec.Event.Price)
}

func TestDecodeReplaceOrderEmitsModify(t *testing.T) {
	p := make([]byte, sizeReplaceOrder)
	header(p, 'U')
	binary.BigEndian.PutUint64(p[11:19], 1)       // original order reference
	binary.BigEndian.PutUint64(p[19:27], 2)       // new order reference (informational)
	binary.BigEndian.PutUint32(p[27:31], 50)      // new shares
	binary.BigEndian.PutUint32(p[31:35], 1010000) // new price

	stream := bytes.NewReader(record(p))
	dec := NewDecoder(stream)
	rec, err := dec.Next()
	assert.NoError(t, err)

	assert.Equal(t, engine.EventModify, rec.Event.Kind)
	assert.Equal(t, uint64(1), uint64(rec.Event.OrderID))
	assert.Equal(t, money.Price(10100), *rec.Event.NewPrice)
	assert.Equal(t, money.Quantity(50), rec.Event.NewQuantity)
}

func TestDecodeOrderDeleteEmitsCancel(t *testing.T) {
	p := make([]byte, sizeOrderDelete)
	header(p, 'D')
	binary.BigEndian.PutUint64(p[11:19], 1)

	stream := bytes.NewReader(record(p))
	dec := NewDecoder(stream)
	rec, err := dec.Next()
	assert.NoError(t, err)

	assert.Equal(t, engine.EventCancel, rec.Event.Kind)
	assert.Equal(t, uint64(1), uint64(rec.Event.OrderID))
}

func TestDecodeExecutedAndTradeAreSkipped(t *testing.T) {
	executed := make([]byte, sizeOrderExecuted)
	header(executed, 'E')
	binary.BigEndian.PutUint64(executed[11:19], 1)
	binary.BigEndian.PutUint32(executed[19:23], 100)
	binary.BigEndian.PutUint64(executed[23:31], 42)

	trade := make([]byte, sizeTrade)
	header(trade, 'P')
	trade[19] = 'B'
	binary.BigEndian.PutUint32(trade[20:24], 100)
	copy(trade[24:32], []byte("AAPL    "))
	binary.BigEndian.PutUint32(trade[32:36], 1000000)

	var stream bytes.Buffer
	stream.Write(record(executed))
	stream.Write(record(trade))

	dec := NewDecoder(&stream)

	rec1, err := dec.Next()
	assert.NoError(t, err)
	assert.Equal(t, engine.EventKind(""), rec1.Event.Kind)

	rec2, err := dec.Next()
	assert.NoError(t, err)
	assert.Equal(t, engine.EventKind(""), rec2.Event.Kind)
}

func TestDecodeUnknownTypeSkipped(t *testing.T) {
	p := []byte{'Z', 0, 0, 0}
	stream := bytes.NewReader(record(p))
	dec := NewDecoder(stream)

	rec, err := dec.Next()
	assert.NoError(t, err)
	assert.Equal(t, engine.EventKind(""), rec.Event.Kind)
}

func TestDecodeZeroLength(t *testing.T) {
	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], 0)
	stream := bytes.NewReader(lenPrefix[:])

	dec := NewDecoder(stream)
	_, err := dec.Next()

	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr))
	assert.ErrorIs(t, decErr, ErrZeroLength)
}

func TestDecodeTooShort(t *testing.T) {
	// An 'A' record with a length prefix shorter than sizeAddOrder.
	payload := []byte{'A', 0, 0, 0}
	stream := bytes.NewReader(record(payload))

	dec := NewDecoder(stream)
	_, err := dec.Next()

	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr))
	assert.ErrorIs(t, decErr, ErrTooShort)
}

func TestDecodeOrderDeleteTooShort(t *testing.T) {
	// 18 bytes: one short of the real 19-byte 'D' record.
	p := make([]byte, sizeOrderDelete-1)
	header(p, 'D')

	stream := bytes.NewReader(record(p))
	dec := NewDecoder(stream)
	_, err := dec.Next()

	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr))
	assert.ErrorIs(t, decErr, ErrTooShort)
}

func TestDecodeTruncatedMidRecord(t *testing.T) {
	var lenPrefix [2]byte
	binary.BigEndian.PutUint16(lenPrefix[:], sizeAddOrder)

	var stream bytes.Buffer
	stream.Write(lenPrefix[:])
	stream.Write([]byte{'A', 1, 2, 3}) // far fewer than sizeAddOrder bytes

	dec := NewDecoder(&stream)
	_, err := dec.Next()

	var decErr *DecodeError
	assert.True(t, errors.As(err, &decErr))
	assert.ErrorIs(t, decErr, ErrTruncated)
}

func TestDecodeEOFBetweenRecordsIsClean(t *testing.T) {
	dec := NewDecoder(bytes.NewReader(nil))
	_, err := dec.Next()
	assert.ErrorIs(t, err, io.EOF)
}
