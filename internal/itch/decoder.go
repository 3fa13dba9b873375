// Package itch decodes ITCH-5.0 style binary records into engine
// intent events, scoped by symbol.
package itch

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"nanobook/internal/engine"
	"nanobook/internal/money"
	"nanobook/internal/order"
)

// Sentinel decoder errors (spec §4.6/§7). Each is wrapped with the
// byte offset of the record that failed.
var (
	ErrTooShort   = errors.New("itch: message too short for its type")
	ErrTruncated  = errors.New("itch: truncated record at EOF")
	ErrZeroLength = errors.New("itch: zero-length record")
)

// Message types this decoder understands. Unknown types are skipped.
const (
	typeAddOrder      = 'A'
	typeReplaceOrder  = 'U'
	typeOrderExecuted = 'E'
	typeOrderDelete   = 'D'
	typeTrade         = 'P'
)

// Every message shares an 11-byte header: type(1) + stock locate(2) +
// tracking number(2) + timestamp(6, 48-bit). Stock locate/tracking are
// not meaningful outside a live session and timestamp is not surfaced
// as an engine event field — the engine's own logical clock assigns
// order timestamps on submission.
const headerSize = 1 + 2 + 2 + 6

// Fixed total payload sizes (header included), per ITCH-5.0 message type.
const (
	sizeAddOrder      = headerSize + 8 + 1 + 4 + 8 + 4     // ref, side, shares, stock, price
	sizeReplaceOrder  = headerSize + 8 + 8 + 4 + 4         // orig ref, new ref, shares, price
	sizeOrderDelete   = headerSize + 8                     // ref
	sizeOrderExecuted = headerSize + 8 + 4 + 8             // ref, shares, match number
	sizeTrade         = headerSize + 8 + 1 + 4 + 8 + 4 + 8 // ref, side, shares, stock, price, match number
)

// Record is one decoded event, scoped to the symbol it applies to.
// Event is the zero value (Kind == "") for record types the decoder
// deliberately does not surface (Executed, Trade, unknown types) — the
// caller should skip these rather than dispatching them.
type Record struct {
	Symbol string
	Event  engine.Event
}

// Decoder reads a sequence of {length u16 BE, payload} records from r
// and yields decoded records. It aborts on the first malformed record
// and reports the byte offset at which the failure occurred.
type Decoder struct {
	r      *bufio.Reader
	offset int64
}

// NewDecoder wraps r for streaming ITCH decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// DecodeError reports the byte offset of a failed record alongside the
// sentinel error classifying the failure.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("itch: offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Next reads and decodes the next record. It returns io.EOF (bare,
// unwrapped) when the stream ends cleanly between records. Any other
// error is a *DecodeError. A record whose type is unsupported or
// deliberately not surfaced ('E', 'P', or unknown) is returned with an
// empty Event.Kind; callers should skip those rather than dispatch.
func (d *Decoder) Next() (Record, error) {
	startOffset := d.offset

	var lenBuf [2]byte
	if _, err := io.ReadFull(d.r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return Record{}, io.EOF
		}
		return Record{}, &DecodeError{Offset: startOffset, Err: ErrTruncated}
	}
	d.offset += 2

	length := binary.BigEndian.Uint16(lenBuf[:])
	if length == 0 {
		return Record{}, &DecodeError{Offset: startOffset, Err: ErrZeroLength}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(d.r, payload); err != nil {
		return Record{}, &DecodeError{Offset: startOffset, Err: ErrTruncated}
	}
	d.offset += int64(length)

	rec, err := decodePayload(payload)
	if err != nil {
		return Record{}, &DecodeError{Offset: startOffset, Err: err}
	}
	return rec, nil
}

func decodePayload(payload []byte) (Record, error) {
	msgType := payload[0]

	switch msgType {
	case typeAddOrder:
		if len(payload) < sizeAddOrder {
			return Record{}, ErrTooShort
		}
		return decodeAddOrder(payload)
	case typeReplaceOrder:
		if len(payload) < sizeReplaceOrder {
			return Record{}, ErrTooShort
		}
		return decodeReplaceOrder(payload)
	case typeOrderDelete:
		if len(payload) < sizeOrderDelete {
			return Record{}, ErrTooShort
		}
		return decodeOrderDelete(payload)
	case typeOrderExecuted:
		if len(payload) < sizeOrderExecuted {
			return Record{}, ErrTooShort
		}
		return Record{}, nil // engine-internal, not surfaced
	case typeTrade:
		if len(payload) < sizeTrade {
			return Record{}, ErrTooShort
		}
		return Record{}, nil // off-book, silently skipped
	default:
		return Record{}, nil // unknown type, skipped
	}
}

// decodeAddOrder parses a 36-byte 'A' record:
//
//	[0]      type 'A'
//	[1..3)   stock locate (u16 BE)
//	[3..5)   tracking number (u16 BE)
//	[5..11)  timestamp (48-bit BE)
//	[11..19) order reference (u64 BE) — informational, not used for id
//	[19]     side: 'B' buy, 'S' sell
//	[20..24) shares (u32 BE)
//	[24..32) symbol, 8-byte ASCII right-padded with spaces
//	[32..36) price, ITCH fixed point 4-implied-decimal (u32 BE)
func decodeAddOrder(p []byte) (Record, error) {
	side := money.Buy
	if p[19] == 'S' {
		side = money.Sell
	}
	shares := binary.BigEndian.Uint32(p[20:24])
	symbol := trimSymbol(p[24:32])
	itchPrice := binary.BigEndian.Uint32(p[32:36])
	price := money.Price(itchPrice / 100)

	return Record{
		Symbol: symbol,
		Event: engine.Event{
			Kind:        engine.EventSubmitLimit,
			Side:        side,
			Price:       &price,
			Quantity:    money.Quantity(shares),
			TimeInForce: money.GTC,
		},
	}, nil
}

// decodeReplaceOrder parses a 35-byte 'U' record:
//
//	[0]      type 'U'
//	[1..3)   stock locate (u16 BE)
//	[3..5)   tracking number (u16 BE)
//	[5..11)  timestamp (48-bit BE)
//	[11..19) original order reference (u64 BE)
//	[19..27) new order reference (u64 BE) — informational
//	[27..31) new shares (u32 BE)
//	[31..35) new price, ITCH fixed point (u32 BE)
//
// Maps to a single Modify event against the original reference (spec
// §4.6, §9 open question (a)): this decoder does not split replace
// into cancel+submit.
func decodeReplaceOrder(p []byte) (Record, error) {
	origRef := binary.BigEndian.Uint64(p[11:19])
	newShares := binary.BigEndian.Uint32(p[27:31])
	itchPrice := binary.BigEndian.Uint32(p[31:35])
	newPrice := money.Price(itchPrice / 100)

	return Record{
		Event: engine.Event{
			Kind:        engine.EventModify,
			OrderID:     order.ID(origRef),
			NewPrice:    &newPrice,
			NewQuantity: money.Quantity(newShares),
		},
	}, nil
}

// decodeOrderDelete parses a 19-byte 'D' record:
//
//	[0]      type 'D'
//	[1..3)   stock locate (u16 BE)
//	[3..5)   tracking number (u16 BE)
//	[5..11)  timestamp (48-bit BE)
//	[11..19) order reference (u64 BE)
func decodeOrderDelete(p []byte) (Record, error) {
	ref := binary.BigEndian.Uint64(p[11:19])
	return Record{
		Event: engine.Event{
			Kind:    engine.EventCancel,
			OrderID: order.ID(ref),
		},
	}, nil
}

func trimSymbol(b []byte) string {
	return strings.TrimRight(string(b), " ")
}
