package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba en memoria. El fakeTxRunner clona el estado antes de cada
// transacción y lo restaura si la función falla, reproduciendo el commit/rollback
// real; así los tests de atomicidad observan exactamente lo que vería la DB.
// ──────────────────────────────────────────────────────────────────────────────

type memState struct {
	lots      map[string]*entity.InventoryLot
	transfers map[string]*entity.Transfer
	activity  []*entity.ActivityLogEntry
}

func newMemState() *memState {
	return &memState{
		lots:      make(map[string]*entity.InventoryLot),
		transfers: make(map[string]*entity.Transfer),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for id, lot := range s.lots {
		cp := *lot
		c.lots[id] = &cp
	}
	for id, tr := range s.transfers {
		cp := *tr
		c.transfers[id] = &cp
	}
	c.activity = append(c.activity, s.activity...)
	return c
}

type fakeDB struct {
	state *memState
}

// fakeTxRunner implementa ledger.TxRunner con semántica snapshot/rollback.
// concurrentLeft > 0 simula conflictos de serialización: los primeros N Run
// fallan con ErrConcurrentModification sin ejecutar la función.
type fakeTxRunner struct {
	db             *fakeDB
	lots           *fakeLots
	transfers      *fakeTransfers
	activity       *fakeActivity
	concurrentLeft int
	runs           int
}

func newFakeTxRunner(db *fakeDB) *fakeTxRunner {
	return &fakeTxRunner{
		db:        db,
		lots:      &fakeLots{db: db},
		transfers: &fakeTransfers{db: db},
		activity:  &fakeActivity{db: db},
	}
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	lots repository.LotRepository,
	transfers repository.TransferRepository,
	activity repository.ActivityLogRepository,
) error) error {
	r.runs++
	if r.concurrentLeft > 0 {
		r.concurrentLeft--
		return fmt.Errorf("%w: conflicto simulado", domain.ErrConcurrentModification)
	}
	snapshot := r.db.state.clone()
	if err := fn(r.lots, r.transfers, r.activity); err != nil {
		r.db.state = snapshot
		return err
	}
	return nil
}

// fakeLots implementa repository.LotRepository sobre el estado en memoria.
// failStoreID inyecta un fallo en toda escritura que toque esa tienda, para
// los tests de atomicidad (el decremento en origen triunfa, el destino no).
type fakeLots struct {
	db          *fakeDB
	failStoreID string
}

var errInjected = errors.New("fallo inyectado en escritura")

func (f *fakeLots) Create(_ context.Context, lot *entity.InventoryLot) error {
	if f.failStoreID != "" && lot.StoreID == f.failStoreID {
		return errInjected
	}
	cp := *lot
	f.db.state.lots[lot.ID] = &cp
	return nil
}

func (f *fakeLots) GetByID(_ context.Context, id string) (*entity.InventoryLot, error) {
	lot, ok := f.db.state.lots[id]
	if !ok {
		return nil, nil
	}
	cp := *lot
	return &cp, nil
}

func (f *fakeLots) GetByIDForUpdate(ctx context.Context, id string) (*entity.InventoryLot, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeLots) OldestAvailableForUpdate(_ context.Context, storeID, itemID string) (*entity.InventoryLot, error) {
	candidates := f.filter(func(l *entity.InventoryLot) bool {
		return l.StoreID == storeID && l.ItemID == itemID &&
			l.Status == entity.LotStatusAvailable && l.Quantity.IsPositive()
	})
	if len(candidates) == 0 {
		return nil, nil
	}
	cp := *candidates[0]
	return &cp, nil
}

func (f *fakeLots) MergeTargetForUpdate(_ context.Context, storeID, itemID string, expiration time.Time) (*entity.InventoryLot, error) {
	candidates := f.filter(func(l *entity.InventoryLot) bool {
		return l.StoreID == storeID && l.ItemID == itemID &&
			l.Status == entity.LotStatusAvailable && sameDate(l.ExpirationDate, expiration)
	})
	if len(candidates) == 0 {
		return nil, nil
	}
	cp := *candidates[0]
	return &cp, nil
}

func (f *fakeLots) UpdateQuantityStatus(_ context.Context, lot *entity.InventoryLot) error {
	if f.failStoreID != "" && lot.StoreID == f.failStoreID {
		return errInjected
	}
	if _, ok := f.db.state.lots[lot.ID]; !ok {
		return fmt.Errorf("lote %s no existe", lot.ID)
	}
	cp := *lot
	f.db.state.lots[lot.ID] = &cp
	return nil
}

func (f *fakeLots) ListByStatus(_ context.Context, storeID string, statuses []string, limit, offset int) ([]*entity.InventoryLot, error) {
	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	out := f.filter(func(l *entity.InventoryLot) bool {
		return (storeID == "" || l.StoreID == storeID) && allowed[l.Status]
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLots) AvailableWithStock(_ context.Context, storeID string) ([]*entity.InventoryLot, error) {
	return f.filter(func(l *entity.InventoryLot) bool {
		return l.StoreID == storeID && l.Status == entity.LotStatusAvailable && l.Quantity.IsPositive()
	}), nil
}

// filter devuelve copias ordenadas por expiración y recepción ascendentes,
// el mismo orden que el adaptador SQL.
func (f *fakeLots) filter(keep func(*entity.InventoryLot) bool) []*entity.InventoryLot {
	var out []*entity.InventoryLot
	for _, lot := range f.db.state.lots {
		if keep(lot) {
			cp := *lot
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpirationDate.Equal(out[j].ExpirationDate) {
			return out[i].ExpirationDate.Before(out[j].ExpirationDate)
		}
		return out[i].ReceivedDate.Before(out[j].ReceivedDate)
	})
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

type fakeTransfers struct {
	db *fakeDB
}

func (f *fakeTransfers) Create(_ context.Context, transfer *entity.Transfer) error {
	if transfer.IdempotencyKey != "" {
		for _, t := range f.db.state.transfers {
			if t.IdempotencyKey == transfer.IdempotencyKey {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *transfer
	f.db.state.transfers[transfer.ID] = &cp
	return nil
}

func (f *fakeTransfers) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	t, ok := f.db.state.transfers[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTransfers) GetByIdempotencyKey(_ context.Context, key string) (*entity.Transfer, error) {
	for _, t := range f.db.state.transfers {
		if t.IdempotencyKey == key {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeTransfers) ListByStore(_ context.Context, storeID string, limit, offset int) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	for _, t := range f.db.state.transfers {
		if t.FromStoreID == storeID || t.ToStoreID == storeID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeActivity struct {
	db *fakeDB
}

func (f *fakeActivity) Create(_ context.Context, entry *entity.ActivityLogEntry) error {
	cp := *entry
	f.db.state.activity = append(f.db.state.activity, &cp)
	return nil
}

func (f *fakeActivity) ListRecent(_ context.Context, storeID string, limit int, since *time.Time) ([]*entity.ActivityLogEntry, error) {
	var out []*entity.ActivityLogEntry
	for _, e := range f.db.state.activity {
		if storeID != "" && e.StoreID != storeID {
			continue
		}
		if since != nil && !e.CreatedAt.After(*since) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// Fakes del catálogo y de empleados (lecturas fuera de transacción).

type fakeStores struct {
	byID map[string]*entity.Store
}

func (f *fakeStores) Create(_ context.Context, s *entity.Store) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStores) GetByID(_ context.Context, id string) (*entity.Store, error) {
	return f.byID[id], nil
}

func (f *fakeStores) Update(_ context.Context, s *entity.Store) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStores) List(_ context.Context, _, _ int) ([]*entity.Store, error) {
	var out []*entity.Store
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

type fakeItems struct {
	byID map[string]*entity.Item
}

func (f *fakeItems) Create(_ context.Context, i *entity.Item) error {
	f.byID[i.ID] = i
	return nil
}

func (f *fakeItems) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return f.byID[id], nil
}

func (f *fakeItems) GetByBarcode(_ context.Context, barcode string) (*entity.Item, error) {
	for _, i := range f.byID {
		if i.Barcode == barcode {
			return i, nil
		}
	}
	return nil, nil
}

func (f *fakeItems) Update(_ context.Context, i *entity.Item) error {
	f.byID[i.ID] = i
	return nil
}

func (f *fakeItems) List(_ context.Context, _, _ int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, i := range f.byID {
		out = append(out, i)
	}
	return out, nil
}

type fakeStaff struct {
	byID map[string]*entity.Staff
}

func (f *fakeStaff) Create(_ context.Context, s *entity.Staff) error {
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStaff) GetByID(_ context.Context, id string) (*entity.Staff, error) {
	return f.byID[id], nil
}

func (f *fakeStaff) FindByEmail(_ context.Context, email string) (*entity.Staff, error) {
	for _, s := range f.byID {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, nil
}

// fakeBatchGen genera números de lote deterministas.
type fakeBatchGen struct {
	n int
}

func (g *fakeBatchGen) Next() string {
	g.n++
	return fmt.Sprintf("LOT-TEST-%04d", g.n)
}
