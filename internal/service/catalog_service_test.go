package service

import (
	"context"
	"testing"

	"storefront/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestCreateProduct(t *testing.T) {
	svc := NewCatalogService(store.NewMemory(), nil)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Nom:   "Clavier mécanique",
		Prix:  floatPtr(79.90),
		Stock: intPtr(15),
		Image: "https://cdn.example.com/clavier.png",
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.True(t, p.Actif)

	got, err := svc.ProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 79.90, got.Prix)
	assert.Equal(t, 15, got.Stock)
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewCatalogService(store.NewMemory(), nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateProductRequest
	}{
		{"missing nom", CreateProductRequest{Prix: floatPtr(1), Stock: intPtr(1)}},
		{"missing prix", CreateProductRequest{Nom: "X", Stock: intPtr(1)}},
		{"negative prix", CreateProductRequest{Nom: "X", Prix: floatPtr(-1), Stock: intPtr(1)}},
		{"negative stock", CreateProductRequest{Nom: "X", Prix: floatPtr(1), Stock: intPtr(-1)}},
		{"bad image url", CreateProductRequest{Nom: "X", Prix: floatPtr(1), Stock: intPtr(1), Image: "pas une url"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, &tc.req)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestProductByIDNotFound(t *testing.T) {
	svc := NewCatalogService(store.NewMemory(), nil)

	_, err := svc.ProductByID(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, KindProductNotFound, KindOf(err))
}

func TestProductStockFallsBackToDB(t *testing.T) {
	mem := store.NewMemory()
	svc := NewCatalogService(mem, nil)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, &CreateProductRequest{
		Nom:   "Souris",
		Prix:  floatPtr(19.90),
		Stock: intPtr(8),
	})
	require.NoError(t, err)

	// Without a cache the database value is served directly.
	stock, err := svc.ProductStock(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stock)
}

func TestCategories(t *testing.T) {
	mem := store.NewMemory()
	mem.AddCategory("Périphériques")
	mem.AddCategory("Écrans")
	svc := NewCatalogService(mem, nil)

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Périphériques", categories[0].Nom)
}
