package service

import (
	"context"
	"testing"

	"github.com/mateusallves/doceria-api/pkg/apperror"
)

func newCatalogService() (*CatalogService, *fakeCategoryRepo) {
	categories := newFakeCategoryRepo()
	return NewCatalogService(newFakeProductRepo(), newFakeKitRepo(), categories), categories
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, &CategoryInput{Name: "Bolos"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if category.Name != "Bolos" {
		t.Errorf("name = %q, want Bolos", category.Name)
	}

	if _, err := svc.CreateCategory(ctx, &CategoryInput{Name: "Bolos"}); !apperror.IsConflict(err) {
		t.Fatalf("duplicate name: got %v, want conflict", err)
	}
}

func TestUpdateCategoryRename(t *testing.T) {
	svc, _ := newCatalogService()
	ctx := context.Background()

	bolos, err := svc.CreateCategory(ctx, &CategoryInput{Name: "Bolos"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateCategory(ctx, &CategoryInput{Name: "Doces"}); err != nil {
		t.Fatal(err)
	}

	renamed, err := svc.UpdateCategory(ctx, bolos.ID, &CategoryInput{Name: "Tortas"})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if renamed.Name != "Tortas" {
		t.Errorf("name = %q, want Tortas", renamed.Name)
	}

	// Renaming onto an existing name conflicts
	if _, err := svc.UpdateCategory(ctx, bolos.ID, &CategoryInput{Name: "Doces"}); !apperror.IsConflict(err) {
		t.Fatalf("rename onto taken name: got %v, want conflict", err)
	}
}

func TestCreateProductRequiresExistingCategory(t *testing.T) {
	svc, categories := newCatalogService()
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, &CategoryInput{Name: "Bolos"})
	if err != nil {
		t.Fatal(err)
	}

	product, err := svc.CreateProduct(ctx, &ProductInput{
		Name:       "Bolo de cenoura",
		Price:      55.00,
		CategoryID: &category.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.Price != 5500 {
		t.Errorf("price = %d cents, want 5500", product.Price)
	}

	if err := categories.Delete(ctx, category.ID); err != nil {
		t.Fatal(err)
	}
	_, err = svc.CreateProduct(ctx, &ProductInput{
		Name:       "Bolo de fubá",
		Price:      40.00,
		CategoryID: &category.ID,
	})
	if !apperror.IsNotFound(err) {
		t.Fatalf("missing category: got %v, want not found", err)
	}
}
