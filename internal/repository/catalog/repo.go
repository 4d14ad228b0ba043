package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/solenta/catalogsearch/internal/db"
	"github.com/solenta/catalogsearch/internal/domain"
)

// store is the consumer interface for product persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) []error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SuggestAdd(ctx context.Context, dict string, entries []string) error
	SuggestDel(ctx context.Context, dict string, entries []string) error
}

// Options configure index layout and vector schema for a catalog repository.
type Options struct {
	Collection      string // logical name, e.g. "products"
	Dimensions      int
	Algorithm       string // "flat" (exhaustive) or "hnsw" (approximate)
	TitleWeight     float64
	HNSWM           int
	HNSWEFConstruct int
}

// Repo implements product persistence over the search store. Alongside the
// product hashes it maintains a completion dictionary of product titles, kept
// in sync on every write so suggestions never outlive their product.
type Repo struct {
	store store
	opts  Options
}

// New creates a catalog repository.
func New(s store, opts Options) *Repo {
	return &Repo{store: s, opts: opts}
}

// IndexName returns the FT index name for this collection.
func (r *Repo) IndexName() string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, r.opts.Collection)
}

// EnsureIndex creates the product index if absent. Returns true if creation
// occurred. An existing index is left untouched, whatever its mapping.
func (r *Repo) EnsureIndex(ctx context.Context) (bool, error) {
	name := r.IndexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("index info %s: %w: %w", name, domain.ErrIndexUnavailable, err)
	}
	if exists {
		return false, nil
	}

	def := r.indexDefinition()
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			// lost a create race, same outcome
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w: %w", name, domain.ErrIndexUnavailable, err)
	}
	return true, nil
}

// Upsert creates or replaces a product. Returns true if created. A changed
// title retires the old completion entry before adding the new one.
func (r *Repo) Upsert(ctx context.Context, p *domain.Product) (bool, error) {
	key := r.productKey(p.ID())

	existing, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return false, fmt.Errorf("hgetall %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	existed := len(existing) > 0

	if err := r.store.HSet(ctx, key, buildHashFields(p)); err != nil {
		return false, fmt.Errorf("hset %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}

	if err := r.syncSuggestions(ctx, existing[FieldTitle], p.Title()); err != nil {
		return false, err
	}

	return !existed, nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domain.Product, error) {
	key := r.productKey(id)

	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domain.Product{}, fmt.Errorf("hgetall %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	if len(m) == 0 {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a product and its completion entry.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.productKey(id)

	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return fmt.Errorf("hgetall %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}
	if len(m) == 0 {
		return domain.ErrProductNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w: %w", key, domain.ErrIndexUnavailable, err)
	}

	if title := m[FieldTitle]; title != "" {
		if err := r.store.SuggestDel(ctx, r.suggestDict(), []string{title}); err != nil {
			return fmt.Errorf("sugdel: %w: %w", domain.ErrIndexUnavailable, err)
		}
	}
	return nil
}

// BulkUpsert persists a batch of products in one pipelined round-trip and
// reports a per-item outcome for each. A failed item never aborts the rest.
func (r *Repo) BulkUpsert(ctx context.Context, products []domain.Product) (domain.BulkReport, error) {
	if len(products) == 0 {
		return domain.NewBulkReport(nil), nil
	}

	items := make([]db.HashSetItem, len(products))
	for i := range products {
		items[i] = db.HashSetItem{
			Key:    r.productKey(products[i].ID()),
			Fields: buildHashFields(&products[i]),
		}
	}

	errs := r.store.HSetMulti(ctx, items)

	outcomes := make([]domain.BulkItem, len(products))
	var titles []string
	for i := range products {
		if errs[i] != nil {
			outcomes[i] = domain.NewBulkError(products[i].ID(), errs[i])
			continue
		}
		outcomes[i] = domain.NewBulkOK(products[i].ID())
		if t := products[i].Title(); t != "" {
			titles = append(titles, t)
		}
	}

	if err := r.store.SuggestAdd(ctx, r.suggestDict(), titles); err != nil {
		return domain.NewBulkReport(outcomes),
			fmt.Errorf("sugadd: %w: %w", domain.ErrIndexUnavailable, err)
	}

	return domain.NewBulkReport(outcomes), nil
}

func (r *Repo) productKey(id string) string {
	return fmt.Sprintf("%s%s:%s", domain.KeyPrefix, r.opts.Collection, id)
}

// suggestDict lives outside the product key prefix so it can never collide
// with a product ID or get picked up by the index.
func (r *Repo) suggestDict() string {
	return fmt.Sprintf("%ssug:%s", domain.KeyPrefix, r.opts.Collection)
}

func (r *Repo) syncSuggestions(ctx context.Context, oldTitle, newTitle string) error {
	dict := r.suggestDict()

	if oldTitle != "" && oldTitle != newTitle {
		if err := r.store.SuggestDel(ctx, dict, []string{oldTitle}); err != nil {
			return fmt.Errorf("sugdel: %w: %w", domain.ErrIndexUnavailable, err)
		}
	}
	if newTitle != "" {
		if err := r.store.SuggestAdd(ctx, dict, []string{newTitle}); err != nil {
			return fmt.Errorf("sugadd: %w: %w", domain.ErrIndexUnavailable, err)
		}
	}
	return nil
}

func (r *Repo) indexDefinition() *db.IndexDefinition {
	algo := db.VectorFlat
	if r.opts.Algorithm == "hnsw" {
		algo = db.VectorHNSW
	}

	return &db.IndexDefinition{
		Name:     r.IndexName(),
		Prefixes: []string{fmt.Sprintf("%s%s:", domain.KeyPrefix, r.opts.Collection)},
		Fields: []db.IndexField{
			{Name: FieldProductID, Type: db.IndexFieldTag},
			{Name: FieldTitle, Type: db.IndexFieldText, TextWeight: r.opts.TitleWeight},
			{Name: FieldDescription, Type: db.IndexFieldText},
			{
				Name: FieldEmbedding, Type: db.IndexFieldVector,
				VectorAlgo: algo, VectorDim: r.opts.Dimensions,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.opts.HNSWM,
				VectorEFConstruct: r.opts.HNSWEFConstruct,
			},
		},
	}
}
