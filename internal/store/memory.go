package store

import (
	"context"
	"sort"
	"sync"

	"storefront/internal/models"
)

// Memory is an in-memory implementation of Store with snapshot-rollback
// transaction semantics. It backs the service and API tests; nothing in the
// server wiring uses it.
type Memory struct {
	mu         sync.Mutex
	products   map[int64]*models.Product
	orders     map[int64]*models.Order
	lines      map[int64]*models.OrderLine
	clients    map[int64]*models.Client
	categories []models.Category

	seqProduct int64
	seqOrder   int64
	seqLine    int64
	seqClient  int64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		products: make(map[int64]*models.Product),
		orders:   make(map[int64]*models.Order),
		lines:    make(map[int64]*models.OrderLine),
		clients:  make(map[int64]*models.Client),
	}
}

var _ Store = (*Memory)(nil)

// SetProductPrice overwrites a product's catalog price. Test seeding helper;
// the engine never changes prices.
func (m *Memory) SetProductPrice(id int64, prix float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.products[id]; ok {
		p.Prix = prix
	}
}

// AddCategory seeds a category.
func (m *Memory) AddCategory(nom string) models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := models.Category{ID: int64(len(m.categories) + 1), Nom: nom}
	m.categories = append(m.categories, c)
	return c
}

// snapshot captures the transactional tables so a failed transaction can be
// rolled back wholesale.
type snapshot struct {
	products map[int64]*models.Product
	orders   map[int64]*models.Order
	lines    map[int64]*models.OrderLine
	seqOrder int64
	seqLine  int64
}

func (m *Memory) snapshot() snapshot {
	s := snapshot{
		products: make(map[int64]*models.Product, len(m.products)),
		orders:   make(map[int64]*models.Order, len(m.orders)),
		lines:    make(map[int64]*models.OrderLine, len(m.lines)),
		seqOrder: m.seqOrder,
		seqLine:  m.seqLine,
	}
	for id, p := range m.products {
		cp := *p
		s.products[id] = &cp
	}
	for id, o := range m.orders {
		cp := *o
		s.orders[id] = &cp
	}
	for id, l := range m.lines {
		cp := *l
		s.lines[id] = &cp
	}
	return s
}

func (m *Memory) restore(s snapshot) {
	m.products = s.products
	m.orders = s.orders
	m.lines = s.lines
	m.seqOrder = s.seqOrder
	m.seqLine = s.seqLine
}

// WithTx runs fn against the store under a single lock; any error restores
// the pre-transaction state.
func (m *Memory) WithTx(ctx context.Context, fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.snapshot()
	if err := fn(memTx{m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// memTx exposes the transaction-scoped contract. The enclosing WithTx holds
// the lock, so methods here must not lock again.
type memTx struct {
	m *Memory
}

var _ Tx = memTx{}

func (t memTx) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := t.m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (t memTx) ProductByName(ctx context.Context, nom string) (*models.Product, error) {
	for _, p := range t.m.products {
		if p.Nom == nom {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (t memTx) AdjustStock(ctx context.Context, productID int64, delta int) error {
	if p, ok := t.m.products[productID]; ok {
		p.Stock += delta
	}
	return nil
}

func (t memTx) InsertOrder(ctx context.Context, o *models.Order) error {
	t.m.seqOrder++
	o.ID = t.m.seqOrder
	cp := *o
	t.m.orders[o.ID] = &cp
	return nil
}

func (t memTx) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := t.m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (t memTx) UpdateOrderAddress(ctx context.Context, orderID int64, adresse string) error {
	if o, ok := t.m.orders[orderID]; ok {
		o.AdresseLivraison = adresse
	}
	return nil
}

func (t memTx) UpdateOrderAmount(ctx context.Context, orderID int64, montant float64) error {
	if o, ok := t.m.orders[orderID]; ok {
		o.Montant = montant
	}
	return nil
}

func (t memTx) UpdateOrderStatus(ctx context.Context, orderID int64, statut string) (int64, error) {
	o, ok := t.m.orders[orderID]
	if !ok {
		return 0, nil
	}
	o.Statut = statut
	return 1, nil
}

func (t memTx) Line(ctx context.Context, orderID, productID int64) (*models.OrderLine, error) {
	for _, l := range t.m.lines {
		if l.OrderID == orderID && l.ProductID == productID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (t memTx) InsertLine(ctx context.Context, l *models.OrderLine) error {
	t.m.seqLine++
	l.ID = t.m.seqLine
	cp := *l
	t.m.lines[l.ID] = &cp
	return nil
}

func (t memTx) GrowLine(ctx context.Context, lineID int64, quantite int, prixTotal float64) error {
	if l, ok := t.m.lines[lineID]; ok {
		l.Quantite += quantite
		l.PrixTotal += prixTotal
	}
	return nil
}

func (t memTx) DeleteLine(ctx context.Context, lineID int64) error {
	delete(t.m.lines, lineID)
	return nil
}

func (t memTx) SumLineTotals(ctx context.Context, orderID int64) (float64, error) {
	var total float64
	for _, l := range t.m.lines {
		if l.OrderID == orderID {
			total += l.PrixTotal
		}
	}
	return total, nil
}

func (m *Memory) ProductByID(ctx context.Context, id int64) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx{m}.ProductByID(ctx, id)
}

func (m *Memory) ProductByName(ctx context.Context, nom string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx{m}.ProductByName(ctx, nom)
}

func (m *Memory) Products(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Memory) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqProduct++
	p.ID = m.seqProduct
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *Memory) Categories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *Memory) OrderByID(ctx context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memTx{m}.OrderByID(ctx, id)
}

func (m *Memory) OrdersByClient(ctx context.Context, clientID int64) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.ClientID == clientID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Memory) LinesByOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.OrderLine, 0)
	for _, l := range m.lines {
		if l.OrderID == orderID {
			cp := *l
			if p, ok := m.products[l.ProductID]; ok {
				cp.ProduitNom = p.Nom
			}
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) CreateClient(ctx context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seqClient++
	c.ID = m.seqClient
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *Memory) ClientByEmail(ctx context.Context, email string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Memory) Clients(ctx context.Context) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
