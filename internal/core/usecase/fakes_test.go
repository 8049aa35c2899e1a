package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"catalog-service/internal/core/domain"
)

// fakeItemStore хранилище в памяти с той же семантикой фильтров, что и SQL:
// OR внутри трейта, AND между трейтами, id как последний ключ сортировки.
type fakeItemStore struct {
	mu        sync.Mutex
	tables    map[string][]domain.Item
	findCalls int
	scanCalls int
	scanGate  chan struct{}
	scanStart chan struct{}
	err       error
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{tables: make(map[string][]domain.Item)}
}

func (s *fakeItemStore) put(table string, items ...domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table] = append(s.tables[table], items...)
}

func matches(item domain.Item, filters domain.AttributeFilters) bool {
	for trait, values := range filters {
		found := false
		for _, a := range item.Attributes {
			if a.TraitType != trait {
				continue
			}
			for _, v := range values {
				if a.Value == v {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *fakeItemStore) FindItems(_ context.Context, q domain.ItemsQuery) (*domain.ItemsPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findCalls++

	if s.err != nil {
		return nil, s.err
	}
	rows, ok := s.tables[q.Table]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", q.Table, domain.ErrCollectionNotFound)
	}

	var matched []domain.Item
	for _, it := range rows {
		if matches(it, q.Filters) {
			matched = append(matched, it)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Sort.Field == domain.SortByName && a.BaseName != b.BaseName {
			if q.Sort.Descending {
				return a.BaseName > b.BaseName
			}
			return a.BaseName < b.BaseName
		}
		if q.Sort.Descending {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return &domain.ItemsPage{
		Items:      matched[start:end],
		TotalItems: total,
		Page:       q.Page,
		TotalPages: domain.TotalPagesFor(total, q.Limit),
	}, nil
}

func (s *fakeItemStore) ScanAttributes(ctx context.Context, table string, visit func([]domain.Attribute)) (int, error) {
	if s.scanGate != nil {
		if s.scanStart != nil {
			select {
			case s.scanStart <- struct{}{}:
			default:
			}
		}
		select {
		case <-s.scanGate:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanCalls++

	if s.err != nil {
		return 0, s.err
	}
	rows, ok := s.tables[table]
	if !ok {
		return 0, fmt.Errorf("table %s: %w", table, domain.ErrCollectionNotFound)
	}
	for _, it := range rows {
		visit(it.Attributes)
	}
	return len(rows), nil
}

func (s *fakeItemStore) ListCollectionTables(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tables := make([]string, 0, len(s.tables))
	for t := range s.tables {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables, nil
}

func (s *fakeItemStore) CountItems(_ context.Context, table string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	rows, ok := s.tables[table]
	if !ok {
		return 0, fmt.Errorf("table %s: %w", table, domain.ErrCollectionNotFound)
	}
	return len(rows), nil
}

// plushPepe 50 предметов, Model A у первых 25, B у остальных
func plushPepe() []domain.Item {
	items := make([]domain.Item, 0, 50)
	for i := 1; i <= 50; i++ {
		model := "A"
		if i > 25 {
			model = "B"
		}
		items = append(items, domain.Item{
			ID:       int64(i),
			BaseName: "Plush Pepe",
			Attributes: []domain.Attribute{
				{TraitType: "Model", Value: model},
				{TraitType: "Backdrop", Value: fmt.Sprintf("bd%d", i%3)},
			},
		})
	}
	return items
}

type fakeImportStore struct {
	calls map[string]int
	err   error
}

func (f *fakeImportStore) UpsertItems(_ context.Context, table string, items []domain.ImportedItem) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[table] += len(items)
	return len(items), nil
}

type fakeReferralStore struct {
	added []domain.Referral
	err   error
}

func (f *fakeReferralStore) AddReferral(_ context.Context, r domain.Referral) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, r)
	return nil
}

func (f *fakeReferralStore) GetInvitedUsers(_ context.Context, referrerID int64) ([]domain.Referral, error) {
	var out []domain.Referral
	for _, r := range f.added {
		if r.ReferrerID == referrerID {
			out = append(out, r)
		}
	}
	return out, f.err
}
