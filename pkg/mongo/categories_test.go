package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/models"
)

type fakeCategories struct {
	byID     map[bson.ObjectID]*models.Category
	children map[bson.ObjectID]int64
}

func (f *fakeCategories) GetCategoryByID(ctx context.Context, id bson.ObjectID) (*models.Category, error) {
	category, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return category, nil
}

func (f *fakeCategories) CountChildren(ctx context.Context, id bson.ObjectID) (int64, error) {
	return f.children[id], nil
}

func newCategoryTree() (*fakeCategories, bson.ObjectID, bson.ObjectID, bson.ObjectID) {
	rootA := bson.NewObjectID()
	rootC := bson.NewObjectID()
	childB := bson.NewObjectID()
	src := &fakeCategories{
		byID: map[bson.ObjectID]*models.Category{
			rootA:  {ID: rootA, Name: "Shoes", Slug: "shoes"},
			rootC:  {ID: rootC, Name: "Apparel", Slug: "apparel"},
			childB: {ID: childB, Name: "Sneakers", Slug: "sneakers", ParentID: rootA},
		},
		children: map[bson.ObjectID]int64{rootA: 1},
	}
	return src, rootA, rootC, childB
}

func TestValidateParentMissing(t *testing.T) {
	src, _, _, _ := newCategoryTree()
	err := validateParent(context.Background(), src, bson.NewObjectID())
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestValidateParentRejectsSubcategory(t *testing.T) {
	src, _, _, childB := newCategoryTree()
	err := validateParent(context.Background(), src, childB)
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestValidateParentAcceptsRoot(t *testing.T) {
	src, rootA, _, _ := newCategoryTree()
	require.NoError(t, validateParent(context.Background(), src, rootA))
}

func TestValidateReparentSelf(t *testing.T) {
	src, rootA, _, _ := newCategoryTree()
	err := validateReparent(context.Background(), src, rootA, rootA)
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestValidateReparentRootWithChildren(t *testing.T) {
	src, rootA, rootC, _ := newCategoryTree()
	err := validateReparent(context.Background(), src, rootA, rootC)
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestValidateReparentChildlessRoot(t *testing.T) {
	src, rootA, rootC, _ := newCategoryTree()
	require.NoError(t, validateReparent(context.Background(), src, rootC, rootA))
}

func TestValidateReparentMovesLeafBetweenRoots(t *testing.T) {
	src, _, rootC, childB := newCategoryTree()
	require.NoError(t, validateReparent(context.Background(), src, childB, rootC))
}
