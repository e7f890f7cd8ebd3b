package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/pkg/testutil"
)

type fakeFetcher struct {
	failOn map[string]bool
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.failOn[url] {
		return "", errors.New("unreachable")
	}
	return url, nil
}

func newImporter(t *testing.T, fetcher catalog.ImageFetcher) (*catalog.Importer, *catalog.Service) {
	svc, _ := newCatalogService(t)
	return catalog.NewImporter(svc, fetcher, testutil.Logger()), svc
}

func TestImportCreatesProducts(t *testing.T) {
	importer, svc := newImporter(t, &fakeFetcher{})
	ctx := context.Background()

	csv := strings.Join([]string{
		"name,category,price,discount,stock,image_url",
		"Basic Tee,Apparel,25.00,0,100,",
		"Canvas Tote,Accessories,18.00,2.50,40,http://img.example/tote.jpg",
	}, "\n")

	result, err := importer.Import(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Empty(t, result.Failed)

	page, err := svc.ListProducts(ctx, &catalog.ListProductsRequest{IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)

	categories, err := svc.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestImportBadRowsDoNotAbortRun(t *testing.T) {
	importer, svc := newImporter(t, &fakeFetcher{})
	ctx := context.Background()

	csv := strings.Join([]string{
		"Good One,Apparel,10.00,0,5,",
		",Apparel,10.00,0,5,",
		"Bad Price,Apparel,ten,0,5,",
		"Negative Stock,Apparel,10.00,0,-2,",
		"Good Two,Apparel,12.00,0,1,",
	}, "\n")

	result, err := importer.Import(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	require.Len(t, result.Failed, 3)
	assert.Equal(t, 2, result.Failed[0].Line)
	assert.Equal(t, 3, result.Failed[1].Line)
	assert.Equal(t, 4, result.Failed[2].Line)

	page, err := svc.ListProducts(ctx, &catalog.ListProductsRequest{IncludeHidden: true})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
}

func TestImportImageFailureStillCreatesProduct(t *testing.T) {
	fetcher := &fakeFetcher{failOn: map[string]bool{"http://img.example/broken.jpg": true}}
	importer, svc := newImporter(t, fetcher)
	ctx := context.Background()

	csv := "No Image,Apparel,9.99,0,3,http://img.example/broken.jpg\n"

	result, err := importer.Import(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Failed)

	page, err := svc.ListProducts(ctx, &catalog.ListProductsRequest{IncludeHidden: true})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Empty(t, page.Products[0].ImageURL)
	assert.True(t, page.Products[0].Price.Equal(decimal.RequireFromString("9.99")))
}

func TestImportReusesExistingCategory(t *testing.T) {
	importer, svc := newImporter(t, &fakeFetcher{})
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, &catalog.CreateCategoryRequest{Name: "Apparel"})
	require.NoError(t, err)

	csv := "Tee,apparel,20.00,0,10,\n"
	result, err := importer.Import(ctx, strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	categories, err := svc.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
