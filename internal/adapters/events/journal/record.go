package journal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/tidwall/gjson"
)

const kindSurface = "surface"

var ErrMalformedRecord = errors.New("malformed journal record")

// SurfaceUpdate is what the host UI shows for one slot.
type SurfaceUpdate struct {
	Side     domain.Side
	Slot     int
	Quantity uint32
	Visible  bool
}

// Record is one decoded journal line: either a notification for the engine
// or a presentation surface update.
type Record struct {
	Notification *domain.Notification
	Surface      *SurfaceUpdate
}

// Decode parses one JSON journal line.
func Decode(line []byte) (Record, error) {
	if !gjson.ValidBytes(line) {
		return Record{}, fmt.Errorf("%w: invalid json", ErrMalformedRecord)
	}

	doc := gjson.ParseBytes(line)
	if !doc.IsObject() {
		return Record{}, fmt.Errorf("%w: not an object", ErrMalformedRecord)
	}

	kind := doc.Get("kind").String()
	if kind == kindSurface {
		update, err := decodeSurface(doc)
		if err != nil {
			return Record{}, err
		}
		return Record{Surface: &update}, nil
	}

	n, err := decodeNotification(domain.EventKind(kind), doc)
	if err != nil {
		return Record{}, err
	}
	return Record{Notification: &n}, nil
}

func decodeNotification(kind domain.EventKind, doc gjson.Result) (domain.Notification, error) {
	if !kind.Valid() {
		return domain.Notification{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, kind)
	}

	n := domain.Notification{
		Kind:        kind,
		Ref:         doc.Get("ref").Uint(),
		Slot:        int(doc.Get("slot").Int()),
		ItemID:      uint32(doc.Get("item").Uint()),
		RawItemID:   uint32(doc.Get("raw_item").Uint()),
		Quantity:    uint32(doc.Get("qty").Uint()),
		HighQuality: doc.Get("hq").Bool(),
		Amount:      uint32(doc.Get("amount").Uint()),
		Confirmed:   doc.Get("confirmed").Bool(),
	}

	if side := doc.Get("side"); side.Exists() {
		parsed, err := domain.ParseSide(side.String())
		if err != nil {
			return domain.Notification{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		n.Side = parsed
	}

	base, addr := doc.Get("base"), doc.Get("addr")
	if base.Exists() || addr.Exists() {
		baseValue, err := parseAddress(base)
		if err != nil {
			return domain.Notification{}, err
		}
		addrValue, err := parseAddress(addr)
		if err != nil {
			return domain.Notification{}, err
		}
		n.Address = &domain.HostAddress{Base: baseValue, Addr: addrValue}
	}

	return n, nil
}

func decodeSurface(doc gjson.Result) (SurfaceUpdate, error) {
	side, err := domain.ParseSide(doc.Get("side").String())
	if err != nil {
		return SurfaceUpdate{}, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	slot := doc.Get("slot")
	if !slot.Exists() {
		return SurfaceUpdate{}, fmt.Errorf("%w: surface record without slot", ErrMalformedRecord)
	}

	update := SurfaceUpdate{
		Side:     side,
		Slot:     int(slot.Int()),
		Quantity: uint32(doc.Get("qty").Uint()),
		Visible:  true,
	}
	if visible := doc.Get("visible"); visible.Exists() {
		update.Visible = visible.Bool()
	}

	return update, nil
}

// parseAddress accepts a JSON number or a "0x" prefixed string.
func parseAddress(value gjson.Result) (uint64, error) {
	switch value.Type {
	case gjson.Number:
		return value.Uint(), nil
	case gjson.String:
		parsed, err := strconv.ParseUint(strings.TrimSpace(value.Str), 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: address %q", ErrMalformedRecord, value.Str)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: missing address", ErrMalformedRecord)
	}
}
