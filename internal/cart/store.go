package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/minhvule/teacart/internal/upstream"
	"github.com/minhvule/teacart/pkg/enums"
	pkgerrors "github.com/minhvule/teacart/pkg/errors"
	"github.com/minhvule/teacart/pkg/logger"
	"github.com/minhvule/teacart/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

// BackendClient is the slice of the upstream cart API the store depends on.
type BackendClient interface {
	FetchCart(ctx context.Context, storeID string) ([]upstream.CartItem, error)
	AddItem(ctx context.Context, input upstream.AddItemInput) error
	UpdateQuantity(ctx context.Context, storeID, itemID string, quantity int) error
	UpdateItem(ctx context.Context, storeID, itemID string, cfg upstream.ItemConfig) error
	RemoveItem(ctx context.Context, storeID, itemID string) error
	ClearCart(ctx context.Context, storeID string) error
}

// Persister stores the warm-start state for a session.
type Persister interface {
	Save(ctx context.Context, sessionID string, state PersistedState) error
	Load(ctx context.Context, sessionID string) (*PersistedState, error)
	Delete(ctx context.Context, sessionID string) error
}

// AddItemInput describes a product being added to the active store's cart.
type AddItemInput struct {
	ProductID    string
	Name         string
	Images       []string
	Quantity     int
	SizeOption   string
	SugarLevel   string
	IceOption    string
	SpecialNotes string
	Toppings     []ToppingRef
}

// ItemMatch locates an existing line by its configuration, not its backend id.
type ItemMatch struct {
	ProductID  string
	SizeOption string
	SugarLevel string
	IceOption  string
	Toppings   []ToppingRef
}

func (m ItemMatch) key() string {
	return ConfigKey(m.ProductID, m.SizeOption, m.SugarLevel, m.IceOption, m.Toppings)
}

// ConfigUpdate carries the full replacement configuration for a line.
type ConfigUpdate struct {
	Quantity     int
	SizeOption   string
	SugarLevel   string
	IceOption    string
	SpecialNotes string
	Toppings     []ToppingRef
}

// Store owns all cart state for one customer session: the working item list
// for the active commerce store, per-store snapshots, the checkout selection
// and the auth gate. All writes go through the operations below; reads are
// computed fresh from current state.
type Store struct {
	sessionID string
	backend   BackendClient
	persister Persister
	logg      *logger.Logger
	metrics   *metrics.CartMetrics

	mu            sync.Mutex
	authenticated bool
	activeStoreID string
	items         []LineItem
	snapshots     map[string]StoreSnapshot
	selectedKeys  map[string]struct{}
	syncedStores  map[string]bool
	loadingOps    int

	locksMu    sync.Mutex
	storeLocks map[string]*sync.Mutex

	reconcileGroup singleflight.Group

	switchMu     sync.Mutex
	switchCancel context.CancelFunc
	switchDone   chan struct{}
}

// NewStore builds a cart store for one session.
func NewStore(sessionID string, backend BackendClient, persister Persister, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	if backend == nil {
		return nil, fmt.Errorf("backend client is required")
	}
	return &Store{
		sessionID:    sessionID,
		backend:      backend,
		persister:    persister,
		logg:         logg,
		metrics:      cartMetrics,
		snapshots:    map[string]StoreSnapshot{},
		selectedKeys: map[string]struct{}{},
		syncedStores: map[string]bool{},
		storeLocks:   map[string]*sync.Mutex{},
	}, nil
}

// restore seeds the store from a persisted warm-start state. Backend ids in
// the cache are not trusted for mutation targeting until the store has been
// reconciled once.
func (s *Store) restore(state PersistedState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cloneItems(state.Items)
	s.activeStoreID = state.ActiveStoreID
	s.snapshots = map[string]StoreSnapshot{}
	for storeID, snap := range state.Snapshots {
		s.snapshots[storeID] = StoreSnapshot{Items: cloneItems(snap.Items), LastUpdated: snap.LastUpdated}
	}
	s.selectedKeys = map[string]struct{}{}
	for _, key := range state.SelectedKeys {
		s.selectedKeys[key] = struct{}{}
	}
	s.syncedStores = map[string]bool{}
}

// SetAuthenticated flips the auth gate. The transition to false cascades:
// working items, selection, snapshots and the persisted warm-start entry are
// all wiped.
func (s *Store) SetAuthenticated(ctx context.Context, authenticated bool) error {
	s.mu.Lock()
	wasAuthenticated := s.authenticated
	s.authenticated = authenticated
	if !authenticated {
		s.items = nil
		s.snapshots = map[string]StoreSnapshot{}
		s.selectedKeys = map[string]struct{}{}
		s.syncedStores = map[string]bool{}
		s.activeStoreID = ""
	}
	s.mu.Unlock()

	if authenticated || !wasAuthenticated {
		return nil
	}

	s.cancelPendingSwitch()

	var err error
	if s.persister != nil {
		err = multierr.Append(err, s.persister.Delete(ctx, s.sessionID))
	}
	if err != nil && s.logg != nil {
		s.logg.Error(ctx, "cart.logout_cleanup_failed", err)
	}
	return err
}

// IsAuthenticated reports the auth gate.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// ActiveStoreID returns the store whose items are materialized right now.
func (s *Store) ActiveStoreID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeStoreID
}

// IsLoading reports whether any cart operation is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadingOps > 0
}

// Items returns a copy of the current working item list.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

// SelectedKeys returns the configuration keys marked for checkout.
func (s *Store) SelectedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.selectedKeys))
	for key := range s.selectedKeys {
		keys = append(keys, key)
	}
	return keys
}

// SetSelectedKeys replaces the checkout selection. Keys that do not match a
// current line are dropped.
func (s *Store) SetSelectedKeys(ctx context.Context, keys []string) {
	s.mu.Lock()
	current := map[string]struct{}{}
	for _, item := range s.items {
		current[item.ConfigKey()] = struct{}{}
	}
	s.selectedKeys = map[string]struct{}{}
	for _, key := range keys {
		if _, ok := current[key]; ok {
			s.selectedKeys[key] = struct{}{}
		}
	}
	s.mu.Unlock()

	s.persistState(ctx)
}

// TotalQuantity sums quantities across the working list; zero when signed out.
func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return 0
	}
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// CartTotal sums line totals across the working list; zero when signed out.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// SelectedTotal sums line totals restricted to the checkout selection.
func (s *Store) SelectedTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, item := range s.items {
		if _, ok := s.selectedKeys[item.ConfigKey()]; ok {
			total = total.Add(item.LineTotal())
		}
	}
	return total
}

// Snapshots summarizes every known store snapshot.
func (s *Store) Snapshots() []SnapshotInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]SnapshotInfo, 0, len(s.snapshots))
	for storeID, snap := range s.snapshots {
		info := SnapshotInfo{StoreID: storeID, LastUpdated: snap.LastUpdated, Total: decimal.Zero}
		for _, item := range snap.Items {
			info.ItemCount += item.Quantity
			info.Total = info.Total.Add(item.LineTotal())
		}
		infos = append(infos, info)
	}
	return infos
}

// SwitchStore moves the active cart view to another commerce store. The
// switch itself completes synchronously: the outgoing store's items are
// parked in its snapshot and the incoming store's snapshot is materialized.
// A reconciliation for the new store is kicked off in the background; a
// second switch aborts the previous one.
func (s *Store) SwitchStore(ctx context.Context, storeID string) error {
	if storeID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	s.mu.Lock()
	if s.activeStoreID == storeID {
		s.mu.Unlock()
		return nil
	}

	if s.authenticated && s.activeStoreID != "" && len(s.items) > 0 {
		s.snapshots[s.activeStoreID] = StoreSnapshot{Items: cloneItems(s.items), LastUpdated: time.Now()}
	}

	s.activeStoreID = storeID
	if s.authenticated {
		s.items = cloneItems(s.snapshots[storeID].Items)
	} else {
		s.items = nil
	}

	current := map[string]struct{}{}
	for _, item := range s.items {
		current[item.ConfigKey()] = struct{}{}
	}
	for key := range s.selectedKeys {
		if _, ok := current[key]; !ok {
			delete(s.selectedKeys, key)
		}
	}
	authenticated := s.authenticated
	s.mu.Unlock()

	s.persistState(ctx)

	if authenticated {
		s.deferredReconcile(ctx, storeID)
	}
	return nil
}

func (s *Store) deferredReconcile(ctx context.Context, storeID string) {
	s.switchMu.Lock()
	if s.switchCancel != nil {
		s.switchCancel()
	}
	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.switchCancel = cancel
	done := make(chan struct{})
	s.switchDone = done
	s.switchMu.Unlock()

	go func() {
		defer close(done)
		defer cancel()
		if err := s.Reconcile(bg, storeID); err != nil && s.logg != nil {
			s.logg.Error(s.logg.WithStoreID(bg, storeID), "cart.switch_reconcile_failed", err)
		}
	}()
}

func (s *Store) cancelPendingSwitch() {
	s.switchMu.Lock()
	cancel := s.switchCancel
	done := s.switchDone
	s.switchCancel = nil
	s.switchDone = nil
	s.switchMu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// WaitForSwitch blocks until the background reconciliation from the most
// recent store switch has finished. Mainly for tests and shutdown.
func (s *Store) WaitForSwitch() {
	s.switchMu.Lock()
	done := s.switchDone
	s.switchMu.Unlock()
	if done != nil {
		<-done
	}
}

// Reconcile runs the authoritative refresh cycle for a store: fetch the
// remote cart, transform it, merge it, re-attach backend ids to local
// residue, then publish the result as both the working set (when the store
// is active) and the store's snapshot. Unauthenticated or store-less calls
// are a no-op. Concurrent calls for the same store collapse into one fetch,
// and the fetch itself waits behind any in-flight mutation so it never reads
// the backend mid-write.
func (s *Store) Reconcile(ctx context.Context, storeID string) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return nil
	}
	if storeID == "" {
		storeID = s.activeStoreID
	}
	if storeID == "" {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.beginLoading()
	defer s.endLoading()

	started := time.Now()
	_, err, _ := s.reconcileGroup.Do(storeID, func() (any, error) {
		unlock := s.lockStore(storeID)
		defer unlock()
		return nil, s.reconcileOnce(ctx, storeID)
	})
	s.metrics.ObserveReconcile(time.Since(started), err)
	return err
}

func (s *Store) reconcileOnce(ctx context.Context, storeID string) error {
	raw, err := s.backend.FetchCart(ctx, storeID)
	if err != nil {
		return err
	}

	remote, mismatches := Merge(FromBackend(raw))
	s.logMismatches(ctx, storeID, mismatches)

	s.mu.Lock()

	if !s.authenticated {
		s.mu.Unlock()
		return nil
	}

	var local []LineItem
	if storeID == s.activeStoreID {
		local = s.items
	} else {
		local = s.snapshots[storeID].Items
	}

	// Remote is authoritative for every key it knows; a matching local line
	// is replaced wholesale, which is also how it adopts the backend id and
	// refreshed display data. Purely local residue (never synced) survives.
	remoteKeys := make(map[string]struct{}, len(remote))
	for _, item := range remote {
		remoteKeys[item.ConfigKey()] = struct{}{}
	}
	final := cloneItems(remote)
	for _, item := range local {
		if _, ok := remoteKeys[item.ConfigKey()]; !ok && item.BackendID == "" {
			final = append(final, item)
		}
	}

	if storeID == s.activeStoreID {
		s.items = final
	}
	s.snapshots[storeID] = StoreSnapshot{Items: cloneItems(final), LastUpdated: time.Now()}
	s.syncedStores[storeID] = true

	state, persist := s.captureStateLocked()
	s.mu.Unlock()
	if persist {
		s.savePersisted(ctx, state)
	}
	return nil
}

// AddItem pushes a new line to the backend and re-reads the authoritative
// state. Duplicate configurations are folded by the backend and the merge
// engine; add never creates a second row for an existing key.
func (s *Store) AddItem(ctx context.Context, input AddItemInput) error {
	storeID, err := s.precondition()
	if err != nil {
		s.metrics.IncFailure("add")
		return err
	}

	unlock := s.lockStore(storeID)
	defer unlock()
	s.beginLoading()
	defer s.endLoading()

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	sizeOption := input.SizeOption
	if sizeOption == "" {
		sizeOption = enums.DefaultSizeOption
	}
	iceOption := input.IceOption
	if iceOption == "" {
		iceOption = enums.DefaultIceOption
	}

	toppings := make([]upstream.ToppingIDRef, 0, len(input.Toppings))
	for _, topping := range normalizeToppings(input.Toppings) {
		toppings = append(toppings, upstream.ToppingIDRef{ToppingID: topping.ID})
	}

	payload := upstream.AddItemInput{
		StoreID:      storeID,
		ProductID:    input.ProductID,
		Quantity:     quantity,
		SizeOption:   sizeOption,
		SugarLevel:   NormalizeSugarLevel(input.SugarLevel),
		IceOption:    iceOption,
		SpecialNotes: input.SpecialNotes,
		Toppings:     toppings,
	}

	if err := s.backend.AddItem(ctx, payload); err != nil {
		s.metrics.IncFailure("add")
		return err
	}

	if err := s.reconcileOnceGuarded(ctx, storeID); err != nil {
		s.metrics.IncFailure("add")
		return err
	}
	s.metrics.IncSuccess("add")
	return nil
}

// UpdateQuantity changes the quantity of the line matching the given
// configuration. A line that never synced has nothing to update remotely,
// so the call is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, match ItemMatch, quantity int) error {
	storeID, err := s.precondition()
	if err != nil {
		s.metrics.IncFailure("update_quantity")
		return err
	}
	if quantity <= 0 {
		s.metrics.IncFailure("update_quantity")
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	unlock := s.lockStore(storeID)
	defer unlock()
	s.beginLoading()
	defer s.endLoading()

	if err := s.ensureSynced(ctx, storeID); err != nil {
		s.metrics.IncFailure("update_quantity")
		return err
	}

	item, found := s.findByKey(match.key())
	if !found {
		s.metrics.IncFailure("update_quantity")
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if item.BackendID == "" {
		return nil
	}

	if err := s.backend.UpdateQuantity(ctx, storeID, item.BackendID, quantity); err != nil {
		s.metrics.IncFailure("update_quantity")
		return err
	}

	if err := s.reconcileOnceGuarded(ctx, storeID); err != nil {
		s.metrics.IncFailure("update_quantity")
		return err
	}
	s.metrics.IncSuccess("update_quantity")
	return nil
}

// UpdateConfig replaces a line's full configuration. The backend folds the
// result into another line server-side when the new configuration collides
// with one; a single reconciliation afterwards picks that up.
func (s *Store) UpdateConfig(ctx context.Context, match ItemMatch, update ConfigUpdate) error {
	storeID, err := s.precondition()
	if err != nil {
		s.metrics.IncFailure("update_config")
		return err
	}

	unlock := s.lockStore(storeID)
	defer unlock()
	s.beginLoading()
	defer s.endLoading()

	if err := s.ensureSynced(ctx, storeID); err != nil {
		s.metrics.IncFailure("update_config")
		return err
	}

	item, found := s.findByKey(match.key())
	if !found {
		s.metrics.IncFailure("update_config")
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if item.BackendID == "" {
		s.metrics.IncFailure("update_config")
		return pkgerrors.New(pkgerrors.CodeConflict, "cart item has not synced yet")
	}

	quantity := update.Quantity
	if quantity <= 0 {
		quantity = item.Quantity
	}
	toppingIDs := make([]string, 0, len(update.Toppings))
	for _, topping := range normalizeToppings(update.Toppings) {
		toppingIDs = append(toppingIDs, topping.ID)
	}

	cfg := upstream.ItemConfig{
		Quantity:     quantity,
		SizeOption:   update.SizeOption,
		SugarLevel:   NormalizeSugarLevel(update.SugarLevel),
		IceOption:    update.IceOption,
		SpecialNotes: update.SpecialNotes,
		Toppings:     toppingIDs,
	}

	if err := s.backend.UpdateItem(ctx, storeID, item.BackendID, cfg); err != nil {
		s.metrics.IncFailure("update_config")
		return err
	}

	if err := s.reconcileOnceGuarded(ctx, storeID); err != nil {
		s.metrics.IncFailure("update_config")
		return err
	}
	s.metrics.IncSuccess("update_config")
	return nil
}

// RemoveItem deletes the line matching the given configuration.
func (s *Store) RemoveItem(ctx context.Context, match ItemMatch) error {
	storeID, err := s.precondition()
	if err != nil {
		s.metrics.IncFailure("remove")
		return err
	}

	unlock := s.lockStore(storeID)
	defer unlock()
	s.beginLoading()
	defer s.endLoading()

	if err := s.ensureSynced(ctx, storeID); err != nil {
		s.metrics.IncFailure("remove")
		return err
	}

	item, found := s.findByKey(match.key())
	if !found {
		s.metrics.IncFailure("remove")
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if item.BackendID == "" {
		s.metrics.IncFailure("remove")
		return pkgerrors.New(pkgerrors.CodeConflict, "cart item has not synced yet")
	}

	if err := s.backend.RemoveItem(ctx, storeID, item.BackendID); err != nil {
		s.metrics.IncFailure("remove")
		return err
	}

	if err := s.reconcileOnceGuarded(ctx, storeID); err != nil {
		s.metrics.IncFailure("remove")
		return err
	}
	s.metrics.IncSuccess("remove")
	return nil
}

// Clear empties the active store's cart. The remote call is skipped when the
// remote cart is already empty.
func (s *Store) Clear(ctx context.Context) error {
	storeID, err := s.precondition()
	if err != nil {
		s.metrics.IncFailure("clear")
		return err
	}

	unlock := s.lockStore(storeID)
	defer unlock()
	s.beginLoading()
	defer s.endLoading()

	remote, err := s.backend.FetchCart(ctx, storeID)
	if err != nil {
		s.metrics.IncFailure("clear")
		return err
	}
	if len(remote) > 0 {
		if err := s.backend.ClearCart(ctx, storeID); err != nil {
			s.metrics.IncFailure("clear")
			return err
		}
	}

	s.mu.Lock()
	cleared := map[string]struct{}{}
	for _, item := range s.items {
		cleared[item.ConfigKey()] = struct{}{}
	}
	for key := range cleared {
		delete(s.selectedKeys, key)
	}
	s.items = nil
	s.snapshots[storeID] = StoreSnapshot{LastUpdated: time.Now()}
	s.syncedStores[storeID] = true
	state, persist := s.captureStateLocked()
	s.mu.Unlock()

	if persist {
		s.savePersisted(ctx, state)
	}
	s.metrics.IncSuccess("clear")
	return nil
}

func (s *Store) precondition() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return "", pkgerrors.New(pkgerrors.CodeAuthRequired, "authentication required")
	}
	if s.activeStoreID == "" {
		return "", pkgerrors.New(pkgerrors.CodeNoStoreSelected, "no active store selected")
	}
	return s.activeStoreID, nil
}

// ensureSynced runs one reconciliation before a cached backend id is used
// for mutation targeting. Warm-started state is a cache, not truth.
func (s *Store) ensureSynced(ctx context.Context, storeID string) error {
	s.mu.Lock()
	synced := s.syncedStores[storeID]
	s.mu.Unlock()
	if synced {
		return nil
	}
	return s.reconcileOnceGuarded(ctx, storeID)
}

// reconcileOnceGuarded is the reconcile entry point used inside mutations,
// where the per-store lock is already held. The Forget keeps a follow-up
// reconcile from joining a flight whose fetch started before the mutation
// committed; joining it would return a working set without the write.
func (s *Store) reconcileOnceGuarded(ctx context.Context, storeID string) error {
	started := time.Now()
	s.reconcileGroup.Forget(storeID)
	_, err, _ := s.reconcileGroup.Do(storeID, func() (any, error) {
		return nil, s.reconcileOnce(ctx, storeID)
	})
	s.metrics.ObserveReconcile(time.Since(started), err)
	return err
}

func (s *Store) findByKey(key string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ConfigKey() == key {
			return item, true
		}
	}
	return LineItem{}, false
}

func (s *Store) lockStore(storeID string) func() {
	s.locksMu.Lock()
	lock, ok := s.storeLocks[storeID]
	if !ok {
		lock = &sync.Mutex{}
		s.storeLocks[storeID] = lock
	}
	s.locksMu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *Store) beginLoading() {
	s.mu.Lock()
	s.loadingOps++
	s.mu.Unlock()
}

func (s *Store) endLoading() {
	s.mu.Lock()
	if s.loadingOps > 0 {
		s.loadingOps--
	}
	s.mu.Unlock()
}

func (s *Store) logMismatches(ctx context.Context, storeID string, mismatches []NotesMismatch) {
	if s.logg == nil {
		return
	}
	for _, mismatch := range mismatches {
		entry := s.logg.WithFields(ctx, map[string]any{
			"store_id":        storeID,
			"config_key":      mismatch.Key,
			"kept_notes":      mismatch.Kept,
			"discarded_notes": mismatch.Discarded,
		})
		s.logg.Warn(entry, "cart.duplicate_notes_mismatch")
	}
}

func (s *Store) persistState(ctx context.Context) {
	s.mu.Lock()
	state, ok := s.captureStateLocked()
	s.mu.Unlock()
	if ok {
		s.savePersisted(ctx, state)
	}
}

// captureStateLocked builds the warm-start payload; callers hold s.mu. The
// persister write happens after the lock is released so that a slow cache
// does not stall read accessors.
func (s *Store) captureStateLocked() (PersistedState, bool) {
	if s.persister == nil || !s.authenticated {
		return PersistedState{}, false
	}

	state := PersistedState{
		Items:         cloneItems(s.items),
		ActiveStoreID: s.activeStoreID,
		Snapshots:     map[string]StoreSnapshot{},
	}
	for storeID, snap := range s.snapshots {
		state.Snapshots[storeID] = StoreSnapshot{Items: cloneItems(snap.Items), LastUpdated: snap.LastUpdated}
	}
	for key := range s.selectedKeys {
		state.SelectedKeys = append(state.SelectedKeys, key)
	}
	return state, true
}

func (s *Store) savePersisted(ctx context.Context, state PersistedState) {
	if err := s.persister.Save(ctx, s.sessionID, state); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.persist_failed")
	}
}
