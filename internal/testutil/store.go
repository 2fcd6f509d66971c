// Package testutil provee implementaciones en memoria de los puertos de
// persistencia para las pruebas de casos de uso. El runner de transacciones
// emula rollback restaurando una instantánea del estado cuando fn falla.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jmcastano/trastienda-api/internal/application/inventory"
	"github.com/jmcastano/trastienda-api/internal/domain/entity"
	"github.com/jmcastano/trastienda-api/internal/domain/repository"
)

// Store estado compartido de los repos en memoria.
type Store struct {
	mu           sync.Mutex
	variantes    map[string]*entity.Variante
	tipos        []*entity.TipoMovimiento
	movimientos  []*entity.Movimiento
	compras      map[string]*entity.Compra
	ajustes      map[string]*entity.Ajuste
	ventas       map[string]*entity.Venta
	devoluciones map[string]*entity.Devolucion
	creditos     map[string]*entity.Credito
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{
		variantes:    make(map[string]*entity.Variante),
		compras:      make(map[string]*entity.Compra),
		ajustes:      make(map[string]*entity.Ajuste),
		ventas:       make(map[string]*entity.Venta),
		devoluciones: make(map[string]*entity.Devolucion),
		creditos:     make(map[string]*entity.Credito),
	}
}

// SeedTipo agrega un tipo de movimiento activo y lo devuelve.
func (s *Store) SeedTipo(nombre, naturaleza string) *entity.TipoMovimiento {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &entity.TipoMovimiento{
		ID:         uuid.New().String(),
		Nombre:     nombre,
		Naturaleza: naturaleza,
		Activo:     true,
		CreatedAt:  time.Now(),
	}
	s.tipos = append(s.tipos, t)
	return t
}

// SeedVariante agrega una variante activa con el stock dado y la devuelve.
func (s *Store) SeedVariante(sku string, stock decimal.Decimal) *entity.Variante {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := &entity.Variante{
		ID:          uuid.New().String(),
		SKU:         sku,
		Nombre:      "Variante " + sku,
		PrecioCosto: decimal.NewFromInt(10),
		PrecioVenta: decimal.NewFromInt(25),
		Stock:       stock,
		Activa:      true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.variantes[v.ID] = v
	return cloneVariante(v)
}

// Repos devuelve el paquete de repositorios atado al store.
func (s *Store) Repos() inventory.TxRepos {
	return inventory.TxRepos{
		Variantes:       &varianteRepo{s},
		TiposMovimiento: &tipoRepo{s},
		Movimientos:     &movimientoRepo{s},
		Compras:         &compraRepo{s},
		Ajustes:         &ajusteRepo{s},
		Ventas:          &ventaRepo{s},
		Devoluciones:    &devolucionRepo{s},
		Creditos:        &creditoRepo{s},
	}
}

// Runner devuelve un TxRunner que restaura el estado previo si fn falla,
// imitando el rollback de una transacción real.
func (s *Store) Runner() inventory.TxRunner {
	return &memRunner{s: s}
}

type memRunner struct {
	s *Store
}

func (r *memRunner) Run(_ context.Context, fn func(inventory.TxRepos) error) error {
	snap := r.s.snapshot()
	if err := fn(r.s.Repos()); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	variantes    map[string]*entity.Variante
	movimientos  []*entity.Movimiento
	compras      map[string]*entity.Compra
	ajustes      map[string]*entity.Ajuste
	ventas       map[string]*entity.Venta
	devoluciones map[string]*entity.Devolucion
	creditos     map[string]*entity.Credito
}

func (s *Store) snapshot() storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := storeSnapshot{
		variantes:    make(map[string]*entity.Variante, len(s.variantes)),
		compras:      make(map[string]*entity.Compra, len(s.compras)),
		ajustes:      make(map[string]*entity.Ajuste, len(s.ajustes)),
		ventas:       make(map[string]*entity.Venta, len(s.ventas)),
		devoluciones: make(map[string]*entity.Devolucion, len(s.devoluciones)),
		creditos:     make(map[string]*entity.Credito, len(s.creditos)),
	}
	for id, v := range s.variantes {
		snap.variantes[id] = cloneVariante(v)
	}
	for _, m := range s.movimientos {
		snap.movimientos = append(snap.movimientos, cloneMovimiento(m))
	}
	for id, c := range s.compras {
		snap.compras[id] = cloneCompra(c)
	}
	for id, a := range s.ajustes {
		snap.ajustes[id] = cloneAjuste(a)
	}
	for id, v := range s.ventas {
		snap.ventas[id] = cloneVenta(v)
	}
	for id, d := range s.devoluciones {
		snap.devoluciones[id] = cloneDevolucion(d)
	}
	for id, c := range s.creditos {
		snap.creditos[id] = cloneCredito(c)
	}
	return snap
}

func (s *Store) restore(snap storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variantes = snap.variantes
	s.movimientos = snap.movimientos
	s.compras = snap.compras
	s.ajustes = snap.ajustes
	s.ventas = snap.ventas
	s.devoluciones = snap.devoluciones
	s.creditos = snap.creditos
}

// ── variantes ─────────────────────────────────────────────────────────────────

type varianteRepo struct{ s *Store }

var _ repository.VarianteRepository = (*varianteRepo)(nil)

func (r *varianteRepo) Create(v *entity.Variante) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.variantes[v.ID] = cloneVariante(v)
	return nil
}

func (r *varianteRepo) GetByID(id string) (*entity.Variante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneVariante(r.s.variantes[id]), nil
}

func (r *varianteRepo) GetBySKU(sku string) (*entity.Variante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.variantes {
		if v.SKU == sku {
			return cloneVariante(v), nil
		}
	}
	return nil, nil
}

func (r *varianteRepo) GetForUpdate(id string) (*entity.Variante, error) {
	return r.GetByID(id)
}

func (r *varianteRepo) UpdateStock(id string, stock decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.variantes[id]; ok {
		v.Stock = stock
		v.UpdatedAt = time.Now()
	}
	return nil
}

func (r *varianteRepo) List(soloActivas bool, limit, offset int) ([]*entity.Variante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Variante
	for _, v := range r.s.variantes {
		if soloActivas && !v.Activa {
			continue
		}
		out = append(out, cloneVariante(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return paginate(out, limit, offset), nil
}

func (r *varianteRepo) ListStockBajo() ([]*entity.Variante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Variante
	for _, v := range r.s.variantes {
		if v.Activa && v.BajoMinimo() {
			out = append(out, cloneVariante(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *varianteRepo) ListAgotadas() ([]*entity.Variante, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Variante
	for _, v := range r.s.variantes {
		if v.Activa && v.Agotada() {
			out = append(out, cloneVariante(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

// ── tipos de movimiento ───────────────────────────────────────────────────────

type tipoRepo struct{ s *Store }

var _ repository.TipoMovimientoRepository = (*tipoRepo)(nil)

func (r *tipoRepo) GetByID(id string) (*entity.TipoMovimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tipos {
		if t.ID == id {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *tipoRepo) GetByNombre(nombre string) (*entity.TipoMovimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tipos {
		if t.Nombre == nombre {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *tipoRepo) List(soloActivos bool) ([]*entity.TipoMovimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TipoMovimiento
	for _, t := range r.s.tipos {
		if soloActivos && !t.Activo {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	return out, nil
}

// ── movimientos ───────────────────────────────────────────────────────────────

type movimientoRepo struct{ s *Store }

var _ repository.MovimientoRepository = (*movimientoRepo)(nil)

func (r *movimientoRepo) Create(m *entity.Movimiento) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.movimientos = append(r.s.movimientos, cloneMovimiento(m))
	return nil
}

func (r *movimientoRepo) GetByID(id string) (*entity.Movimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movimientos {
		if m.ID == id {
			return cloneMovimiento(m), nil
		}
	}
	return nil, nil
}

func (r *movimientoRepo) List(f repository.MovimientoFilter) ([]*entity.Movimiento, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Movimiento
	for _, m := range r.s.movimientos {
		if f.VarianteID != "" && m.VarianteID != f.VarianteID {
			continue
		}
		if f.TipoMovimientoID != "" && m.TipoMovimientoID != f.TipoMovimientoID {
			continue
		}
		if f.Desde != nil && m.Fecha.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && m.Fecha.After(*f.Hasta) {
			continue
		}
		out = append(out, cloneMovimiento(m))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *movimientoRepo) SumByVariante(varianteID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, m := range r.s.movimientos {
		if m.VarianteID == varianteID {
			sum = sum.Add(m.Cantidad)
		}
	}
	return sum, nil
}

// ── compras ───────────────────────────────────────────────────────────────────

type compraRepo struct{ s *Store }

var _ repository.CompraRepository = (*compraRepo)(nil)

func (r *compraRepo) Create(c *entity.Compra) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.compras[c.ID] = cloneCompra(c)
	return nil
}

func (r *compraRepo) GetByID(id string) (*entity.Compra, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneCompra(r.s.compras[id]), nil
}

func (r *compraRepo) GetForUpdate(id string) (*entity.Compra, error) {
	return r.GetByID(id)
}

func (r *compraRepo) UpdateLineaRecibida(lineaID string, cantidadRecibida decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.compras {
		for i := range c.Lineas {
			if c.Lineas[i].ID == lineaID {
				c.Lineas[i].CantidadRecibida = cantidadRecibida
				return nil
			}
		}
	}
	return nil
}

func (r *compraRepo) UpdateEstado(id, estado string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.compras[id]; ok {
		c.Estado = estado
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (r *compraRepo) List(estado string, limit, offset int) ([]*entity.Compra, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Compra
	for _, c := range r.s.compras {
		if estado != "" && c.Estado != estado {
			continue
		}
		out = append(out, cloneCompra(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// ── ajustes ───────────────────────────────────────────────────────────────────

type ajusteRepo struct{ s *Store }

var _ repository.AjusteRepository = (*ajusteRepo)(nil)

func (r *ajusteRepo) Create(a *entity.Ajuste) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ajustes[a.ID] = cloneAjuste(a)
	return nil
}

func (r *ajusteRepo) GetByID(id string) (*entity.Ajuste, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneAjuste(r.s.ajustes[id]), nil
}

func (r *ajusteRepo) GetForUpdate(id string) (*entity.Ajuste, error) {
	return r.GetByID(id)
}

func (r *ajusteRepo) UpdateEstado(id, estado string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.ajustes[id]; ok {
		a.Estado = estado
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (r *ajusteRepo) UpdateLineaStockNuevo(lineaID string, stockNuevo decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.ajustes {
		for i := range a.Lineas {
			if a.Lineas[i].ID == lineaID {
				v := stockNuevo
				a.Lineas[i].StockNuevo = &v
				return nil
			}
		}
	}
	return nil
}

func (r *ajusteRepo) List(estado string, limit, offset int) ([]*entity.Ajuste, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Ajuste
	for _, a := range r.s.ajustes {
		if estado != "" && a.Estado != estado {
			continue
		}
		out = append(out, cloneAjuste(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// ── ventas ────────────────────────────────────────────────────────────────────

type ventaRepo struct{ s *Store }

var _ repository.VentaRepository = (*ventaRepo)(nil)

func (r *ventaRepo) Create(v *entity.Venta) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.ventas[v.ID] = cloneVenta(v)
	return nil
}

func (r *ventaRepo) GetByID(id string) (*entity.Venta, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneVenta(r.s.ventas[id]), nil
}

func (r *ventaRepo) GetForUpdate(id string) (*entity.Venta, error) {
	return r.GetByID(id)
}

func (r *ventaRepo) UpdateSaldo(id string, saldo decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if v, ok := r.s.ventas[id]; ok {
		v.Saldo = saldo
		v.UpdatedAt = time.Now()
	}
	return nil
}

func (r *ventaRepo) List(limit, offset int) ([]*entity.Venta, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Venta
	for _, v := range r.s.ventas {
		out = append(out, cloneVenta(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// ── devoluciones ──────────────────────────────────────────────────────────────

type devolucionRepo struct{ s *Store }

var _ repository.DevolucionRepository = (*devolucionRepo)(nil)

func (r *devolucionRepo) Create(d *entity.Devolucion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.devoluciones[d.ID] = cloneDevolucion(d)
	return nil
}

func (r *devolucionRepo) GetByID(id string) (*entity.Devolucion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneDevolucion(r.s.devoluciones[id]), nil
}

func (r *devolucionRepo) GetForUpdate(id string) (*entity.Devolucion, error) {
	return r.GetByID(id)
}

func (r *devolucionRepo) UpdateEstado(id, estado string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.devoluciones[id]; ok {
		d.Estado = estado
		d.UpdatedAt = time.Now()
	}
	return nil
}

func (r *devolucionRepo) SumDevueltaPorVentaLinea(ventaLineaID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := decimal.Zero
	for _, d := range r.s.devoluciones {
		if d.Estado != entity.DevolucionProcesada {
			continue
		}
		for i := range d.Lineas {
			if d.Lineas[i].VentaLineaID == ventaLineaID {
				sum = sum.Add(d.Lineas[i].CantidadDevuelta)
			}
		}
	}
	return sum, nil
}

func (r *devolucionRepo) ListByVenta(ventaID string) ([]*entity.Devolucion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Devolucion
	for _, d := range r.s.devoluciones {
		if d.VentaID == ventaID {
			out = append(out, cloneDevolucion(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── créditos ──────────────────────────────────────────────────────────────────

type creditoRepo struct{ s *Store }

var _ repository.CreditoRepository = (*creditoRepo)(nil)

func (r *creditoRepo) Create(c *entity.Credito) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.creditos[c.ID] = cloneCredito(c)
	return nil
}

func (r *creditoRepo) GetByVentaID(ventaID string) (*entity.Credito, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.creditos {
		if c.VentaID == ventaID {
			return cloneCredito(c), nil
		}
	}
	return nil, nil
}

func (r *creditoRepo) Update(c *entity.Credito) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.creditos[c.ID] = cloneCredito(c)
	return nil
}

// ── clones y paginación ───────────────────────────────────────────────────────

func cloneDec(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneVariante(v *entity.Variante) *entity.Variante {
	if v == nil {
		return nil
	}
	c := *v
	c.StockMinimo = cloneDec(v.StockMinimo)
	c.StockMaximo = cloneDec(v.StockMaximo)
	return &c
}

func cloneMovimiento(m *entity.Movimiento) *entity.Movimiento {
	if m == nil {
		return nil
	}
	c := *m
	c.Origen.CompraID = cloneStr(m.Origen.CompraID)
	c.Origen.VentaID = cloneStr(m.Origen.VentaID)
	c.Origen.AjusteID = cloneStr(m.Origen.AjusteID)
	return &c
}

func cloneCompra(in *entity.Compra) *entity.Compra {
	if in == nil {
		return nil
	}
	c := *in
	c.Lineas = append([]entity.CompraLinea(nil), in.Lineas...)
	return &c
}

func cloneAjuste(in *entity.Ajuste) *entity.Ajuste {
	if in == nil {
		return nil
	}
	a := *in
	a.Lineas = append([]entity.AjusteLinea(nil), in.Lineas...)
	for i := range a.Lineas {
		a.Lineas[i].StockNuevo = cloneDec(a.Lineas[i].StockNuevo)
	}
	return &a
}

func cloneVenta(in *entity.Venta) *entity.Venta {
	if in == nil {
		return nil
	}
	v := *in
	v.ClienteID = cloneStr(in.ClienteID)
	v.Lineas = append([]entity.VentaLinea(nil), in.Lineas...)
	return &v
}

func cloneDevolucion(in *entity.Devolucion) *entity.Devolucion {
	if in == nil {
		return nil
	}
	d := *in
	d.Lineas = append([]entity.DevolucionLinea(nil), in.Lineas...)
	return &d
}

func cloneCredito(in *entity.Credito) *entity.Credito {
	if in == nil {
		return nil
	}
	c := *in
	return &c
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
