package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockfifo-api/internal/application/dto"
	"github.com/jhoicas/stockfifo-api/internal/application/ledger"
	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Arnés: un mundo en memoria con dos tiendas (central both, sucursal sell-only),
// un producto y un empleado, más los casos de uso cableados como en main.
// ──────────────────────────────────────────────────────────────────────────────

type world struct {
	db       *fakeDB
	runner   *fakeTxRunner
	stores   *fakeStores
	items    *fakeItems
	staff    *fakeStaff
	receive  *ledger.ReceiveUseCase
	transfer *ledger.TransferUseCase
	sell     *ledger.SellUseCase
	queries  *ledger.QueryUseCase
}

const (
	storeCentral  = "store-central"
	storeSucursal = "store-sucursal"
	itemCerveza   = "item-cerveza"
	staffAna      = "staff-ana"
)

func newWorld(t *testing.T) *world {
	t.Helper()
	db := &fakeDB{state: newMemState()}
	runner := newFakeTxRunner(db)

	stores := &fakeStores{byID: map[string]*entity.Store{
		storeCentral:  {ID: storeCentral, Name: "Bodega Central", Capability: entity.CapabilityBoth},
		storeSucursal: {ID: storeSucursal, Name: "Barra Sucursal", Capability: entity.CapabilitySellOnly},
	}}
	items := &fakeItems{byID: map[string]*entity.Item{
		itemCerveza: {ID: itemCerveza, Name: "Cerveza artesanal", Barcode: "7501000000001"},
	}}
	staff := &fakeStaff{byID: map[string]*entity.Staff{
		staffAna: {ID: staffAna, Name: "Ana", Email: "ana@stockfifo.com", Role: entity.RoleEncargado, Status: "active"},
	}}

	return &world{
		db:       db,
		runner:   runner,
		stores:   stores,
		items:    items,
		staff:    staff,
		receive:  ledger.NewReceiveUseCase(runner, stores, items, &fakeBatchGen{}),
		transfer: ledger.NewTransferUseCase(runner, stores, items, staff, runner.transfers),
		sell:     ledger.NewSellUseCase(runner, runner.lots, stores),
		queries:  ledger.NewQueryUseCase(runner.lots, runner.activity),
	}
}

func (w *world) mustReceive(t *testing.T, storeID string, qty int64, daysToExpiry int) *entity.InventoryLot {
	t.Helper()
	lot, err := w.receive.Receive(context.Background(), ledger.ReceiveInput{
		StoreID:        storeID,
		ItemID:         itemCerveza,
		Quantity:       decimal.NewFromInt(qty),
		ExpirationDate: time.Now().AddDate(0, 0, daysToExpiry),
		ReceivedBy:     staffAna,
	})
	require.NoError(t, err)
	require.NotNil(t, lot)
	return lot
}

// totalQuantity suma la cantidad de todos los lotes del producto, en todos los
// estados y tiendas. Los traslados mueven cantidad, nunca la crean ni destruyen.
func (w *world) totalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range w.db.state.lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

func (w *world) lot(t *testing.T, id string) *entity.InventoryLot {
	t.Helper()
	lot, ok := w.db.state.lots[id]
	require.True(t, ok, "lote %s no existe", id)
	return lot
}

// ──────────────────────────────────────────────────────────────────────────────
// Recepción
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_CreaLoteConScoreYAuditoria(t *testing.T) {
	w := newWorld(t)

	lot := w.mustReceive(t, storeCentral, 50, 3)

	assert.Equal(t, entity.LotStatusAvailable, lot.Status)
	assert.True(t, lot.Quantity.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, 80, lot.PriorityScore, "3 días hasta expirar cae en la banda 1-3")
	assert.Equal(t, "LOT-TEST-0001", lot.BatchNumber)

	require.Len(t, w.db.state.activity, 1)
	entry := w.db.state.activity[0]
	assert.Equal(t, entity.ActionReceived, entry.ActionType)
	assert.True(t, entry.QuantityBefore.IsZero())
	assert.True(t, entry.QuantityAfter.Equal(decimal.NewFromInt(50)))
	require.NotNil(t, entry.LotID)
	assert.Equal(t, lot.ID, *entry.LotID)
}

func TestReceive_RespetaNumeroDeLoteDelProveedor(t *testing.T) {
	w := newWorld(t)

	lot, err := w.receive.Receive(context.Background(), ledger.ReceiveInput{
		StoreID:        storeCentral,
		ItemID:         itemCerveza,
		Quantity:       decimal.NewFromInt(10),
		ExpirationDate: time.Now().AddDate(0, 0, 30),
		BatchNumber:    "PROV-77",
	})
	require.NoError(t, err)
	assert.Equal(t, "PROV-77", lot.BatchNumber)
}

func TestReceive_RechazaCantidadNoPositiva(t *testing.T) {
	w := newWorld(t)

	_, err := w.receive.Receive(context.Background(), ledger.ReceiveInput{
		StoreID:        storeCentral,
		ItemID:         itemCerveza,
		Quantity:       decimal.Zero,
		ExpirationDate: time.Now().AddDate(0, 0, 5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, w.db.state.lots)
	assert.Empty(t, w.db.state.activity)
}

func TestReceive_RechazaTiendaSoloVenta(t *testing.T) {
	w := newWorld(t)

	_, err := w.receive.Receive(context.Background(), ledger.ReceiveInput{
		StoreID:        storeSucursal,
		ItemID:         itemCerveza,
		Quantity:       decimal.NewFromInt(5),
		ExpirationDate: time.Now().AddDate(0, 0, 5),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceive_TiendaInexistente(t *testing.T) {
	w := newWorld(t)

	_, err := w.receive.Receive(context.Background(), ledger.ReceiveInput{
		StoreID:        "store-fantasma",
		ItemID:         itemCerveza,
		Quantity:       decimal.NewFromInt(5),
		ExpirationDate: time.Now().AddDate(0, 0, 5),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_ParcialDejaOrigenDisponible(t *testing.T) {
	w := newWorld(t)
	source := w.mustReceive(t, storeCentral, 50, 10)

	tr, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(20),
		PerformedBy: staffAna,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCompleted, tr.Status)
	assert.Equal(t, source.ID, tr.SourceLotID)

	src := w.lot(t, source.ID)
	assert.True(t, src.Quantity.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, entity.LotStatusAvailable, src.Status)

	// El destino recibe un lote nuevo con la identidad del origen.
	dests, err := w.runner.lots.AvailableWithStock(context.Background(), storeSucursal)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.True(t, dests[0].Quantity.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, source.BatchNumber, dests[0].BatchNumber)
	assert.True(t, sameDate(source.ExpirationDate, dests[0].ExpirationDate))

	assert.True(t, w.totalQuantity().Equal(decimal.NewFromInt(50)), "los traslados conservan la cantidad total")
}

func TestTransfer_DrenajeMarcaTransferredYFusionaEnDestino(t *testing.T) {
	w := newWorld(t)
	source := w.mustReceive(t, storeCentral, 50, 10)

	for _, qty := range []int64{20, 30} {
		_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
			ItemID:      itemCerveza,
			FromStoreID: storeCentral,
			ToStoreID:   storeSucursal,
			Quantity:    decimal.NewFromInt(qty),
			PerformedBy: staffAna,
		})
		require.NoError(t, err)
	}

	src := w.lot(t, source.ID)
	assert.True(t, src.Quantity.IsZero())
	assert.Equal(t, entity.LotStatusTransferred, src.Status)

	// Misma tienda, producto y expiración: un solo lote fusionado de 50.
	dests, err := w.runner.lots.AvailableWithStock(context.Background(), storeSucursal)
	require.NoError(t, err)
	require.Len(t, dests, 1, "el segundo traslado debe fusionar, no crear otro lote")
	assert.True(t, dests[0].Quantity.Equal(decimal.NewFromInt(50)))

	assert.True(t, w.totalQuantity().Equal(decimal.NewFromInt(50)))
}

func TestTransfer_SeleccionaElLoteMasUrgente(t *testing.T) {
	w := newWorld(t)
	lejano := w.mustReceive(t, storeCentral, 40, 30)
	urgente := w.mustReceive(t, storeCentral, 40, 2)

	tr, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(10),
		PerformedBy: staffAna,
	})
	require.NoError(t, err)
	assert.Equal(t, urgente.ID, tr.SourceLotID, "FIFO: se drena primero el que expira antes")

	assert.True(t, w.lot(t, urgente.ID).Quantity.Equal(decimal.NewFromInt(30)))
	assert.True(t, w.lot(t, lejano.ID).Quantity.Equal(decimal.NewFromInt(40)), "el lote lejano no se toca")
}

func TestTransfer_MismaTienda(t *testing.T) {
	w := newWorld(t)
	w.mustReceive(t, storeCentral, 50, 10)

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeCentral,
		Quantity:    decimal.NewFromInt(5),
		PerformedBy: staffAna,
	})
	assert.ErrorIs(t, err, domain.ErrSameStoreTransfer)
}

func TestTransfer_CantidadInsuficienteNoDejaRastro(t *testing.T) {
	w := newWorld(t)
	source := w.mustReceive(t, storeCentral, 50, 10)
	activityBefore := len(w.db.state.activity)

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(999),
		PerformedBy: staffAna,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	// Rollback completo: origen intacto, sin traslado, sin auditoría nueva.
	assert.True(t, w.lot(t, source.ID).Quantity.Equal(decimal.NewFromInt(50)))
	assert.Empty(t, w.db.state.transfers)
	assert.Len(t, w.db.state.activity, activityBefore)
}

func TestTransfer_SinStockEnOrigen(t *testing.T) {
	w := newWorld(t)

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(1),
		PerformedBy: staffAna,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientQuantity)
}

func TestTransfer_EmpleadoInexistente(t *testing.T) {
	w := newWorld(t)
	w.mustReceive(t, storeCentral, 50, 10)

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(5),
		PerformedBy: "staff-fantasma",
	})
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)
}

func TestTransfer_FalloEnDestinoRevierteTodo(t *testing.T) {
	w := newWorld(t)
	source := w.mustReceive(t, storeCentral, 50, 10)

	// Inyectar fallo en toda escritura que toque la sucursal: el decremento en
	// origen ocurre dentro de la tx, el alta en destino falla.
	w.runner.lots.failStoreID = storeSucursal

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(20),
		PerformedBy: staffAna,
	})
	require.Error(t, err)

	src := w.lot(t, source.ID)
	assert.True(t, src.Quantity.Equal(decimal.NewFromInt(50)), "el decremento debe revertirse")
	assert.Equal(t, entity.LotStatusAvailable, src.Status)
	assert.Empty(t, w.db.state.transfers)
	assert.True(t, w.totalQuantity().Equal(decimal.NewFromInt(50)))
}

func TestTransfer_IdempotenciaDevuelveElMismoTraslado(t *testing.T) {
	w := newWorld(t)
	w.mustReceive(t, storeCentral, 50, 10)

	in := ledger.TransferInput{
		ItemID:         itemCerveza,
		FromStoreID:    storeCentral,
		ToStoreID:      storeSucursal,
		Quantity:       decimal.NewFromInt(20),
		PerformedBy:    staffAna,
		IdempotencyKey: "cliente-abc-001",
	}
	first, err := w.transfer.Transfer(context.Background(), in)
	require.NoError(t, err)

	second, err := w.transfer.Transfer(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "el reintento devuelve el traslado original")

	assert.Len(t, w.db.state.transfers, 1, "un solo traslado registrado")
	assert.True(t, w.totalQuantity().Equal(decimal.NewFromInt(50)))

	// La cantidad se movió una sola vez.
	dests, err := w.runner.lots.AvailableWithStock(context.Background(), storeSucursal)
	require.NoError(t, err)
	require.Len(t, dests, 1)
	assert.True(t, dests[0].Quantity.Equal(decimal.NewFromInt(20)))
}

func TestTransfer_ReintentaAnteConflictoDeConcurrencia(t *testing.T) {
	w := newWorld(t)
	w.mustReceive(t, storeCentral, 50, 10)
	runsBefore := w.runner.runs

	// Los dos primeros intentos chocan; el tercero entra.
	w.runner.concurrentLeft = 2

	tr, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(20),
		PerformedBy: staffAna,
	})
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, 3, w.runner.runs-runsBefore)
	assert.Len(t, w.db.state.transfers, 1)
}

func TestTransfer_AgotaReintentosYDevuelveElConflicto(t *testing.T) {
	w := newWorld(t)
	w.mustReceive(t, storeCentral, 50, 10)

	w.runner.concurrentLeft = 10 // más que el tope de reintentos

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(20),
		PerformedBy: staffAna,
	})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Empty(t, w.db.state.transfers)
}

func TestTransfer_ExpiracionesDistintasNoSeFusionan(t *testing.T) {
	w := newWorld(t)
	w.mustReceive(t, storeCentral, 20, 5)
	w.mustReceive(t, storeCentral, 20, 15)

	// Drenar ambos lotes hacia la sucursal.
	for range 2 {
		_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
			ItemID:      itemCerveza,
			FromStoreID: storeCentral,
			ToStoreID:   storeSucursal,
			Quantity:    decimal.NewFromInt(20),
			PerformedBy: staffAna,
		})
		require.NoError(t, err)
	}

	dests, err := w.runner.lots.AvailableWithStock(context.Background(), storeSucursal)
	require.NoError(t, err)
	assert.Len(t, dests, 2, "expiraciones distintas conservan lotes separados")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestMarkSold_FuerzaCantidadCeroYEsTerminal(t *testing.T) {
	w := newWorld(t)
	lot := w.mustReceive(t, storeCentral, 50, 10)

	sold, err := w.sell.MarkSold(context.Background(), lot.ID, staffAna)
	require.NoError(t, err)
	assert.Equal(t, entity.LotStatusSold, sold.Status)
	assert.True(t, sold.Quantity.IsZero())

	// Segunda venta del mismo lote: transición inválida, y el log no crece.
	activityBefore := len(w.db.state.activity)
	_, err = w.sell.MarkSold(context.Background(), lot.ID, staffAna)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	assert.Len(t, w.db.state.activity, activityBefore)
}

func TestMarkSold_RechazaTiendaSoloRecepcion(t *testing.T) {
	w := newWorld(t)
	w.stores.byID["store-almacen"] = &entity.Store{
		ID: "store-almacen", Name: "Almacén", Capability: entity.CapabilityReceiveOnly,
	}
	lot := w.mustReceive(t, "store-almacen", 10, 10)

	_, err := w.sell.MarkSold(context.Background(), lot.ID, staffAna)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMarkSold_RechazaLoteDrenadoPorTraslado(t *testing.T) {
	w := newWorld(t)
	source := w.mustReceive(t, storeCentral, 20, 10)

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(20),
		PerformedBy: staffAna,
	})
	require.NoError(t, err)

	_, err = w.sell.MarkSold(context.Background(), source.ID, staffAna)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}

func TestMarkSold_LoteInexistente(t *testing.T) {
	w := newWorld(t)

	_, err := w.sell.MarkSold(context.Background(), "lote-fantasma", staffAna)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecommendFifoOrder_OrdenaPorUrgencia(t *testing.T) {
	w := newWorld(t)
	lejano := w.mustReceive(t, storeCentral, 10, 40)
	vencido := w.mustReceive(t, storeCentral, 10, -1)
	medio := w.mustReceive(t, storeCentral, 10, 6)

	out, err := w.queries.RecommendFifoOrder(context.Background(), storeCentral)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, vencido.ID, out[0].ID, "lo vencido encabeza la lista")
	assert.Equal(t, medio.ID, out[1].ID)
	assert.Equal(t, lejano.ID, out[2].ID)

	assert.Equal(t, 100, out[0].PriorityScore)
	assert.Equal(t, 50, out[1].PriorityScore)
	assert.Negative(t, out[0].DaysUntilExpiry)
}

func TestRecommendFifoOrder_ExcluyeLotesCerrados(t *testing.T) {
	w := newWorld(t)
	abierto := w.mustReceive(t, storeCentral, 10, 10)
	cerrado := w.mustReceive(t, storeCentral, 10, 5)
	_, err := w.sell.MarkSold(context.Background(), cerrado.ID, staffAna)
	require.NoError(t, err)

	out, err := w.queries.RecommendFifoOrder(context.Background(), storeCentral)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, abierto.ID, out[0].ID)
}

func TestListArchived_DevuelveCerrados(t *testing.T) {
	w := newWorld(t)
	vendido := w.mustReceive(t, storeCentral, 10, 10)
	w.mustReceive(t, storeCentral, 10, 20)
	_, err := w.sell.MarkSold(context.Background(), vendido.ID, staffAna)
	require.NoError(t, err)

	archived, err := w.queries.ListArchived(context.Background(), storeCentral, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, vendido.ID, archived[0].ID)

	active, err := w.queries.ListActive(context.Background(), storeCentral, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestRecentActivity_MasRecientePrimeroYFiltraPorSince(t *testing.T) {
	w := newWorld(t)
	w.mustReceive(t, storeCentral, 10, 10)
	cut := time.Now()
	time.Sleep(5 * time.Millisecond)
	w.mustReceive(t, storeCentral, 20, 10)

	all, err := w.queries.RecentActivity(context.Background(), storeCentral, 0, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt) || all[0].CreatedAt.Equal(all[1].CreatedAt))

	onlyNew, err := w.queries.RecentActivity(context.Background(), storeCentral, 0, &cut)
	require.NoError(t, err)
	require.Len(t, onlyNew, 1)
	assert.True(t, onlyNew[0].QuantityAfter.Equal(decimal.NewFromInt(20)))
}

func TestAuditoria_CadaMovimientoDejaEntrada(t *testing.T) {
	w := newWorld(t)
	lot := w.mustReceive(t, storeCentral, 50, 10)

	_, err := w.transfer.Transfer(context.Background(), ledger.TransferInput{
		ItemID:      itemCerveza,
		FromStoreID: storeCentral,
		ToStoreID:   storeSucursal,
		Quantity:    decimal.NewFromInt(20),
		PerformedBy: staffAna,
	})
	require.NoError(t, err)
	_, err = w.sell.MarkSold(context.Background(), lot.ID, staffAna)
	require.NoError(t, err)

	require.Len(t, w.db.state.activity, 3)
	actions := map[string]int{}
	for _, e := range w.db.state.activity {
		actions[e.ActionType]++
	}
	assert.Equal(t, 1, actions[entity.ActionReceived])
	assert.Equal(t, 1, actions[entity.ActionTransferred])
	assert.Equal(t, 1, actions[entity.ActionSold])
}
