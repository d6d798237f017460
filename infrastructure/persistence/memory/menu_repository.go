package memory

import (
	"context"
	"sort"

	"campusfood/domain/menu"
	"campusfood/domain/shared"
)

type MenuRepository struct {
	store *Store
}

func NewMenuRepository(store *Store) *MenuRepository {
	return &MenuRepository{store: store}
}

func menuDTO(i *menu.Item) menu.ReconstructionDTO {
	return menu.ReconstructionDTO{
		ID:            i.ID(),
		Name:          i.Name(),
		Description:   i.Description(),
		Price:         i.Price(),
		OriginalPrice: i.OriginalPrice(),
		Category:      i.Category(),
		ImageURL:      i.ImageURL(),
		Available:     i.IsAvailable(),
		CreatedAt:     i.CreatedAt(),
		UpdatedAt:     i.UpdatedAt(),
	}
}

func (r *MenuRepository) Save(ctx context.Context, item *menu.Item) error {
	return r.store.write(ctx, func(st *state) error {
		dto := menuDTO(item)
		if item.ID() == 0 {
			if err := r.store.fault("menu.insert"); err != nil {
				return err
			}
			st.lastMenuID++
			dto.ID = st.lastMenuID
			st.menu[dto.ID] = dto
			item.AssignIdentity(dto.ID)
			return nil
		}

		if _, ok := st.menu[dto.ID]; !ok {
			return menu.NewItemNotFoundError(dto.ID)
		}
		if err := r.store.fault("menu.update"); err != nil {
			return err
		}
		st.menu[dto.ID] = dto
		return nil
	})
}

func (r *MenuRepository) FindByID(ctx context.Context, id int64) (*menu.Item, error) {
	var found *menu.Item
	err := r.store.read(ctx, func(st *state) error {
		dto, ok := st.menu[id]
		if !ok {
			return menu.NewItemNotFoundError(id)
		}
		found = menu.RebuildFromDTO(dto)
		return nil
	})
	return found, err
}

func (r *MenuRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]*menu.Item, error) {
	out := make(map[int64]*menu.Item, len(ids))
	err := r.store.read(ctx, func(st *state) error {
		for _, id := range ids {
			if dto, ok := st.menu[id]; ok {
				out[id] = menu.RebuildFromDTO(dto)
			}
		}
		return nil
	})
	return out, err
}

// LockForOrder needs no row locks here: transactions are already serialized.
func (r *MenuRepository) LockForOrder(ctx context.Context, ids []int64) (map[int64]*menu.Item, error) {
	return r.FindByIDs(ctx, ids)
}

func (r *MenuRepository) List(ctx context.Context, filter menu.Filter) ([]*menu.Item, error) {
	spec := filter.Specification()
	items := []*menu.Item{}
	err := r.store.read(ctx, func(st *state) error {
		for _, dto := range st.menu {
			item := menu.RebuildFromDTO(dto)
			if shared.Satisfies(ctx, spec, item) {
				items = append(items, item)
			}
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category() != items[j].Category() {
			return items[i].Category() < items[j].Category()
		}
		if items[i].Name() != items[j].Name() {
			return items[i].Name() < items[j].Name()
		}
		return items[i].ID() < items[j].ID()
	})
	return items, err
}

func (r *MenuRepository) Categories(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	err := r.store.read(ctx, func(st *state) error {
		for _, dto := range st.menu {
			if dto.Available {
				seen[dto.Category] = struct{}{}
			}
		}
		return nil
	})
	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories, err
}

func (r *MenuRepository) Delete(ctx context.Context, id int64) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.menu[id]; !ok {
			return menu.NewItemNotFoundError(id)
		}
		for _, o := range st.orders {
			for _, line := range o.Items {
				if line.MenuItemID() == id {
					return menu.NewItemInUseError(id)
				}
			}
		}
		if err := r.store.fault("menu.delete"); err != nil {
			return err
		}
		delete(st.menu, id)
		return nil
	})
}

var _ menu.Repository = (*MenuRepository)(nil)
