package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/cashier-cli/internal/domain"
	"github.com/bnema/cashier-cli/internal/ports"
	"github.com/google/uuid"
)

type TradeConfig struct {
	// Local is the character running the engine. Target notifications that
	// resolve to it are ignored.
	Local           domain.Identity
	RefreshInterval time.Duration
	Logger          *slog.Logger
	// OnFinish is called after every complete or cancel, outside any lock.
	OnFinish func(Outcome)
	NewID    func() string
}

// Outcome describes how a session ended.
type Outcome struct {
	Snapshot  domain.SessionSnapshot
	Entry     domain.HistoryEntry
	Completed bool
	Continued bool
	Streak    domain.AggregationBucket
}

type effect struct {
	startRefresh bool
	stopRefresh  bool
	outcome      *Outcome
}

type transition struct {
	phases []domain.Phase
	apply  func(s *TradeService, ctx context.Context, n domain.Notification) (effect, error)
}

func (t transition) allows(phase domain.Phase) bool {
	for _, allowed := range t.phases {
		if allowed == phase {
			return true
		}
	}
	return false
}

var (
	anyPhase   = []domain.Phase{domain.PhaseIdle, domain.PhaseActive, domain.PhaseFinalConfirm}
	openPhases = []domain.Phase{domain.PhaseActive, domain.PhaseFinalConfirm}
	idleOnly   = []domain.Phase{domain.PhaseIdle}
	activeOnly = []domain.Phase{domain.PhaseActive}

	slotEvents = map[domain.EventKind]bool{domain.EventSlotItem: true, domain.EventSlotClear: true}

	// transitions lists, per notification kind, the phases it is legal in.
	transitions map[domain.EventKind]transition
)

func init() {
	transitions = map[domain.EventKind]transition{
		domain.EventBegin:        {phases: idleOnly, apply: (*TradeService).applyBegin},
		domain.EventTarget:       {phases: anyPhase, apply: (*TradeService).applyTarget},
		domain.EventSlotItem:     {phases: openPhases, apply: (*TradeService).applySlotItem},
		domain.EventSlotClear:    {phases: openPhases, apply: (*TradeService).applySlotClear},
		domain.EventMoney:        {phases: openPhases, apply: (*TradeService).applyMoney},
		domain.EventConfirm:      {phases: openPhases, apply: (*TradeService).applyConfirm},
		domain.EventFinalConfirm: {phases: activeOnly, apply: (*TradeService).applyFinalConfirm},
		domain.EventComplete:     {phases: openPhases, apply: (*TradeService).applyComplete},
		domain.EventCancel:       {phases: openPhases, apply: (*TradeService).applyCancel},
	}
}

// TradeService reconstructs trade sessions from host notifications.
//
// Notifications must be delivered from a single goroutine in arrival order;
// calls are serialized internally but ordering between concurrent callers is
// not defined. The refresh tick is the only other writer and only runs while
// a session is open.
type TradeService struct {
	directory ports.IdentityDirectory
	catalog   ports.ItemCatalog
	surface   ports.PresentationSurface
	history   *HistoryService
	clock     ports.Clock
	cfg       TradeConfig
	logger    *slog.Logger

	aggregator *Aggregator
	refresher  *Refresher

	ops sync.Mutex

	mu            sync.Mutex
	phase         domain.Phase
	counterparty  domain.Identity
	ledger        domain.Ledger
	revision      uint64
	pendingTarget uint64
	closed        bool
}

func NewTradeService(
	directory ports.IdentityDirectory,
	catalog ports.ItemCatalog,
	surface ports.PresentationSurface,
	history *HistoryService,
	clock ports.Clock,
	cfg TradeConfig,
) *TradeService {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.Must(uuid.NewV7()).String() }
	}
	logger := loggerOrDiscard(cfg.Logger)

	s := &TradeService{
		directory:  directory,
		catalog:    catalog,
		surface:    surface,
		history:    history,
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
		aggregator: NewAggregator(catalog, logger),
	}
	s.refresher = NewRefresher(cfg.RefreshInterval, s.RefreshCounts, logger)

	return s
}

func (s *TradeService) BeginSession(ctx context.Context, ref uint64) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventBegin, Ref: ref})
}

func (s *TradeService) SetCounterpartyTarget(ctx context.Context, ref uint64) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventTarget, Ref: ref})
}

func (s *TradeService) SetSlotItem(ctx context.Context, side domain.Side, index int, itemID, quantity uint32, highQuality bool) error {
	return s.Apply(ctx, domain.Notification{
		Kind:        domain.EventSlotItem,
		Side:        side,
		Slot:        index,
		ItemID:      itemID,
		Quantity:    quantity,
		HighQuality: highQuality,
	})
}

func (s *TradeService) ClearSlot(ctx context.Context, side domain.Side, index int) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventSlotClear, Side: side, Slot: index})
}

func (s *TradeService) SetMoney(ctx context.Context, side domain.Side, amount uint32) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventMoney, Side: side, Amount: amount})
}

func (s *TradeService) SetConfirmed(ctx context.Context, side domain.Side, confirmed bool) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventConfirm, Side: side, Confirmed: confirmed})
}

func (s *TradeService) EnterFinalConfirm(ctx context.Context) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventFinalConfirm})
}

func (s *TradeService) Complete(ctx context.Context) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventComplete})
}

func (s *TradeService) Cancel(ctx context.Context) error {
	return s.Apply(ctx, domain.Notification{Kind: domain.EventCancel})
}

// Apply handles one notification. Every returned error is informational:
// the notification was dropped and the engine is ready for the next one.
func (s *TradeService) Apply(ctx context.Context, n domain.Notification) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	t, ok := transitions[n.Kind]
	if !ok {
		s.logger.Warn("unknown notification dropped", "kind", n.Kind)
		return fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	if err := normalize(&n); err != nil {
		s.logger.Debug("notification dropped", "kind", n.Kind, "err", err)
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("trade service closed")
	}
	phase := s.phase
	if !t.allows(phase) {
		s.mu.Unlock()
		if n.Kind == domain.EventSlotClear {
			s.logger.Debug("slot clear outside session ignored", "side", n.Side, "slot", n.Slot)
		} else {
			s.logger.Warn("illegal transition ignored", "kind", n.Kind, "phase", phase)
		}
		return fmt.Errorf("%s in phase %s: %w", n.Kind, phase, domain.ErrIllegalTransition)
	}

	eff, err := t.apply(s, ctx, n)
	s.mu.Unlock()

	if eff.stopRefresh {
		s.refresher.Stop()
	}
	if eff.startRefresh {
		s.refresher.Start(context.WithoutCancel(ctx))
	}
	if eff.outcome != nil {
		s.finish(ctx, *eff.outcome)
	}

	return err
}

// RefreshCounts copies live quantities from the presentation surface into
// occupied slots. Slots the surface cannot show keep their value.
func (s *TradeService) RefreshCounts() {
	if s.surface == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.phase.InSession() {
		return
	}

	for _, side := range []domain.Side{domain.SideSelf, domain.SidePeer} {
		slots := &s.ledger.Slots[side]
		for index := range slots {
			slot := slots[index]
			if slot.Empty() {
				continue
			}
			qty, ok := s.surface.SlotQuantity(side, index)
			if !ok || qty == 0 || qty == slot.Quantity {
				continue
			}
			slot.Quantity = qty
			if changed, _ := slots.Set(index, slot); changed {
				s.revision++
			}
		}
	}
}

func (s *TradeService) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.NewSnapshot(s.counterparty, s.ledger, s.phase, s.revision)
}

func (s *TradeService) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Streak returns the running totals and whether the next completion with
// the same counterparty would extend them.
func (s *TradeService) Streak() (domain.AggregationBucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aggregator.Bucket(), s.aggregator.InStreak()
}

// Close stops the refresh tick. An open session is abandoned without a
// history entry.
func (s *TradeService) Close() {
	s.ops.Lock()
	defer s.ops.Unlock()

	s.mu.Lock()
	if s.phase.InSession() {
		s.logger.Warn("open session abandoned on close", "counterparty", s.counterparty.Key(), "phase", s.phase)
	}
	s.closed = true
	s.phase = domain.PhaseIdle
	s.mu.Unlock()

	s.refresher.Stop()
}

func (s *TradeService) applyBegin(ctx context.Context, n domain.Notification) (effect, error) {
	ref := n.Ref
	if ref == 0 {
		ref = s.pendingTarget
	}
	s.pendingTarget = 0

	s.ledger = domain.Ledger{}
	s.counterparty = s.resolve(ctx, ref)
	s.phase = domain.PhaseActive
	s.revision++

	s.logger.Info("session started", "counterparty", s.counterparty.Key())
	return effect{startRefresh: true}, nil
}

func (s *TradeService) applyTarget(ctx context.Context, n domain.Notification) (effect, error) {
	if n.Ref == 0 {
		return effect{}, nil
	}
	if s.cfg.Local.ObjectRef != 0 && n.Ref == s.cfg.Local.ObjectRef {
		return effect{}, nil
	}

	if !s.phase.InSession() {
		s.pendingTarget = n.Ref
		return effect{}, nil
	}

	identity, err := s.lookup(ctx, n.Ref)
	if err != nil {
		s.logger.Warn("counterparty target not resolved", "ref", n.Ref, "err", err)
		return effect{}, nil
	}
	if !s.cfg.Local.IsZero() && identity.Equal(s.cfg.Local) {
		return effect{}, nil
	}
	if identity == s.counterparty {
		return effect{}, nil
	}

	s.counterparty = identity
	s.revision++
	s.logger.Debug("counterparty updated", "counterparty", identity.Key())
	return effect{}, nil
}

func (s *TradeService) applySlotItem(ctx context.Context, n domain.Notification) (effect, error) {
	slot := domain.ExchangeSlot{ItemID: n.ItemID, Quantity: n.Quantity, HighQuality: n.HighQuality}
	if n.ItemID != 0 {
		slot.StackLimit = lookupItem(ctx, s.catalog, s.logger, n.ItemID).StackSize
	}

	changed, err := s.ledger.Slots[n.Side].Set(n.Slot, slot)
	if err != nil {
		s.logger.Debug("slot item dropped", "side", n.Side, "slot", n.Slot, "err", err)
		return effect{}, err
	}
	if changed {
		s.revision++
	}
	return effect{}, nil
}

func (s *TradeService) applySlotClear(_ context.Context, n domain.Notification) (effect, error) {
	changed, err := s.ledger.Slots[n.Side].Clear(n.Slot)
	if err != nil {
		s.logger.Debug("slot clear dropped", "side", n.Side, "slot", n.Slot, "err", err)
		return effect{}, err
	}
	if changed {
		s.revision++
	}
	return effect{}, nil
}

func (s *TradeService) applyMoney(_ context.Context, n domain.Notification) (effect, error) {
	if s.ledger.Gil.Set(n.Side, n.Amount) {
		s.revision++
	}
	return effect{}, nil
}

func (s *TradeService) applyConfirm(_ context.Context, n domain.Notification) (effect, error) {
	if s.ledger.Confirmed[n.Side] != n.Confirmed {
		s.ledger.Confirmed[n.Side] = n.Confirmed
		s.revision++
	}
	return effect{}, nil
}

func (s *TradeService) applyFinalConfirm(_ context.Context, _ domain.Notification) (effect, error) {
	s.phase = domain.PhaseFinalConfirm
	s.revision++
	return effect{}, nil
}

func (s *TradeService) applyComplete(ctx context.Context, _ domain.Notification) (effect, error) {
	snapshot := s.end()
	continued := s.aggregator.Absorb(ctx, snapshot)

	outcome := &Outcome{
		Snapshot:  snapshot,
		Entry:     s.entry(ctx, snapshot, true),
		Completed: true,
		Continued: continued,
		Streak:    s.aggregator.Bucket(),
	}

	s.logger.Info("session completed", "counterparty", snapshot.Counterparty.Key(), "continued", continued)
	return effect{stopRefresh: true, outcome: outcome}, nil
}

func (s *TradeService) applyCancel(ctx context.Context, _ domain.Notification) (effect, error) {
	snapshot := s.end()
	s.aggregator.BreakStreak()

	outcome := &Outcome{
		Snapshot: snapshot,
		Entry:    s.entry(ctx, snapshot, false),
		Streak:   s.aggregator.Bucket(),
	}

	s.logger.Info("session cancelled", "counterparty", snapshot.Counterparty.Key())
	return effect{stopRefresh: true, outcome: outcome}, nil
}

// end moves to idle. The ledgers stay readable until the next begin.
func (s *TradeService) end() domain.SessionSnapshot {
	snapshot := domain.NewSnapshot(s.counterparty, s.ledger, s.phase, s.revision)
	s.phase = domain.PhaseIdle
	s.revision++
	return snapshot
}

func (s *TradeService) finish(ctx context.Context, outcome Outcome) {
	if s.history != nil {
		if s.history.Record(outcome.Entry) {
			s.history.FlushAsync(context.WithoutCancel(ctx))
		}
	}
	if s.cfg.OnFinish != nil {
		s.cfg.OnFinish(outcome)
	}
}

func (s *TradeService) entry(ctx context.Context, snapshot domain.SessionSnapshot, completed bool) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:            s.cfg.NewID(),
		Timestamp:     s.clock.Now(),
		Completed:     completed,
		Counterparty:  snapshot.Counterparty.Key(),
		GilGiven:      snapshot.SelfGil,
		GilReceived:   snapshot.PeerGil,
		ItemsGiven:    s.itemRecords(ctx, snapshot.SelfSlots),
		ItemsReceived: s.itemRecords(ctx, snapshot.PeerSlots),
		Retained:      true,
	}
}

func (s *TradeService) itemRecords(ctx context.Context, slots domain.SlotLedger) []domain.ItemRecord {
	records := []domain.ItemRecord{}
	for _, slot := range slots.NonEmpty() {
		info := lookupItem(ctx, s.catalog, s.logger, slot.ItemID)
		records = append(records, domain.ItemRecord{
			ItemID:      slot.ItemID,
			IconID:      info.IconID,
			Name:        info.Name,
			Quantity:    slot.Quantity,
			HighQuality: slot.HighQuality,
		})
	}
	return records
}

func (s *TradeService) resolve(ctx context.Context, ref uint64) domain.Identity {
	if ref == 0 {
		s.logger.Warn("session started without counterparty reference")
		return domain.UnknownIdentity()
	}

	identity, err := s.lookup(ctx, ref)
	if err != nil {
		s.logger.Warn("counterparty not resolved", "ref", ref, "err", err)
		return domain.UnknownIdentity()
	}
	return identity
}

func (s *TradeService) lookup(ctx context.Context, ref uint64) (domain.Identity, error) {
	if s.directory == nil {
		return domain.Identity{}, domain.ErrIdentityNotFound
	}

	identity, err := s.directory.Resolve(ctx, ref)
	if err != nil {
		return domain.Identity{}, err
	}
	if identity.ObjectRef == 0 {
		identity.ObjectRef = ref
	}
	return identity, nil
}

// normalize turns raw host addressing into a logical side and slot.
func normalize(n *domain.Notification) error {
	if !slotEvents[n.Kind] {
		if n.Kind == domain.EventMoney || n.Kind == domain.EventConfirm {
			if !n.Side.Valid() {
				return fmt.Errorf("side %d: %w", int(n.Side), domain.ErrMalformedAddress)
			}
		}
		return nil
	}

	if n.Address != nil {
		side, index, err := TranslateSlotAddress(*n.Address)
		if err != nil {
			return err
		}
		n.Side, n.Slot = side, index
	}
	if n.RawItemID != 0 && n.ItemID == 0 {
		n.ItemID, n.HighQuality = DecodeItemID(n.RawItemID)
	}

	if !n.Side.Valid() {
		return fmt.Errorf("side %d: %w", int(n.Side), domain.ErrMalformedAddress)
	}
	if n.Slot < 0 || n.Slot >= domain.SlotsPerSide {
		return fmt.Errorf("slot index %d: %w", n.Slot, domain.ErrMalformedAddress)
	}
	return nil
}
