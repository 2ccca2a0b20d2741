package categories

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint/internal/shared"
)

type memoryRepo struct {
	categories map[int64]Category
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{categories: make(map[int64]Category)}
}

func (r *memoryRepo) List(ctx context.Context) ([]Category, error) {
	out := make([]Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) Create(ctx context.Context, form CategoryForm) (Category, error) {
	for _, c := range r.categories {
		if c.Name == form.Name {
			return Category{}, shared.ErrConflict
		}
	}
	r.nextID++
	c := Category{
		ID:          r.nextID,
		Name:        form.Name,
		Description: form.Description,
		Color:       form.Color,
		CreatedAt:   time.Now(),
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, patch CategoryPatch) (Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = patch.Description
	}
	if patch.Color != nil {
		c.Color = patch.Color
	}
	r.categories[id] = c
	return c, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.categories[id]; !ok {
		return false, nil
	}
	delete(r.categories, id)
	return true, nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), CategoryForm{Name: "   "})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	desc := "Hot and cold drinks"
	created, err := svc.Create(ctx, CategoryForm{Name: "Beverages", Description: &desc})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Beverages", got.Name)
	require.NotNil(t, got.Description)
	require.Equal(t, desc, *got.Description)
}

func TestUpdatePatchesOnlyProvidedFields(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	color := "#2563eb"
	created, err := svc.Create(ctx, CategoryForm{Name: "Snacks", Color: &color})
	require.NoError(t, err)

	newColor := "#f59e0b"
	updated, err := svc.Update(ctx, created.ID, CategoryPatch{Color: &newColor})
	require.NoError(t, err)
	require.Equal(t, "Snacks", updated.Name)
	require.Equal(t, newColor, *updated.Color)

	empty := "  "
	_, err = svc.Update(ctx, created.ID, CategoryPatch{Name: &empty})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateUnknownCategory(t *testing.T) {
	svc := NewService(newMemoryRepo())

	name := "Bakery"
	_, err := svc.Update(context.Background(), 42, CategoryPatch{Name: &name})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, CategoryForm{Name: "Household"})
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, removed)

	_, err = svc.Delete(ctx, 0)
	require.ErrorIs(t, err, shared.ErrValidation)
}
