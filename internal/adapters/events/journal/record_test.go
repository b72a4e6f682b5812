package journal

import (
	"testing"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Record
		wantErr bool
	}{
		{
			name: "begin with ref",
			line: `{"kind":"begin","ref":42}`,
			want: Record{Notification: &domain.Notification{Kind: domain.EventBegin, Ref: 42}},
		},
		{
			name: "logical slot item",
			line: `{"kind":"slot_item","side":"peer","slot":3,"item":5000,"qty":7,"hq":true}`,
			want: Record{Notification: &domain.Notification{
				Kind: domain.EventSlotItem, Side: domain.SidePeer, Slot: 3, ItemID: 5000, Quantity: 7, HighQuality: true,
			}},
		},
		{
			name: "numeric side",
			line: `{"kind":"money","side":1,"amount":250}`,
			want: Record{Notification: &domain.Notification{Kind: domain.EventMoney, Side: domain.SidePeer, Amount: 250}},
		},
		{
			name: "raw address as hex strings",
			line: `{"kind":"slot_item","base":"0x1000","addr":"0x1360","raw_item":1007000,"qty":2}`,
			want: Record{Notification: &domain.Notification{
				Kind:      domain.EventSlotItem,
				Address:   &domain.HostAddress{Base: 0x1000, Addr: 0x1360},
				RawItemID: 1007000,
				Quantity:  2,
			}},
		},
		{
			name: "raw address as numbers",
			line: `{"kind":"slot_clear","base":4096,"addr":4144}`,
			want: Record{Notification: &domain.Notification{Kind: domain.EventSlotClear, Address: &domain.HostAddress{Base: 4096, Addr: 4144}}},
		},
		{
			name: "confirm",
			line: `{"kind":"confirm","side":"self","confirmed":true}`,
			want: Record{Notification: &domain.Notification{Kind: domain.EventConfirm, Confirmed: true}},
		},
		{
			name: "visible surface",
			line: `{"kind":"surface","side":"self","slot":1,"qty":99}`,
			want: Record{Surface: &SurfaceUpdate{Side: domain.SideSelf, Slot: 1, Quantity: 99, Visible: true}},
		},
		{
			name: "hidden surface",
			line: `{"kind":"surface","side":"peer","slot":0,"visible":false}`,
			want: Record{Surface: &SurfaceUpdate{Side: domain.SidePeer, Slot: 0}},
		},
		{name: "not json", line: `{"kind":`, wantErr: true},
		{name: "not an object", line: `[1,2]`, wantErr: true},
		{name: "unknown kind", line: `{"kind":"trade"}`, wantErr: true},
		{name: "bad side", line: `{"kind":"money","side":"left"}`, wantErr: true},
		{name: "bad address", line: `{"kind":"slot_clear","base":"0x10","addr":"zz"}`, wantErr: true},
		{name: "address without base", line: `{"kind":"slot_clear","addr":4144}`, wantErr: true},
		{name: "surface without slot", line: `{"kind":"surface","side":"self"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.line))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedRecord)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSurface(t *testing.T) {
	surface := NewSurface()

	_, ok := surface.SlotQuantity(domain.SideSelf, 0)
	assert.False(t, ok)

	surface.Update(SurfaceUpdate{Side: domain.SideSelf, Slot: 0, Quantity: 12, Visible: true})
	qty, ok := surface.SlotQuantity(domain.SideSelf, 0)
	assert.True(t, ok)
	assert.Equal(t, uint32(12), qty)

	_, ok = surface.SlotQuantity(domain.SidePeer, 0)
	assert.False(t, ok)

	surface.Update(SurfaceUpdate{Side: domain.SideSelf, Slot: 0})
	_, ok = surface.SlotQuantity(domain.SideSelf, 0)
	assert.False(t, ok)

	surface.Update(SurfaceUpdate{Side: domain.SidePeer, Slot: 4, Quantity: 3, Visible: true})
	surface.Reset()
	_, ok = surface.SlotQuantity(domain.SidePeer, 4)
	assert.False(t, ok)
}
