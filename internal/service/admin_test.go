package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/repository"
	repoMocks "storefront/internal/repository/mocks"
)

func TestAdminService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates counts", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mOrders := new(repoMocks.MockOrderRepository)
		mUsers := new(repoMocks.MockUserRepository)
		mOrders.On("Stats", ctx).Return(repository.OrderStats{TotalOrders: 4, TotalRevenue: dec("3200.50")}, nil)
		mCatalog.On("CountProducts", ctx).Return(12, nil)
		mUsers.On("CountProfiles", ctx).Return(9, nil)

		d, err := NewAdminService(mCatalog, mOrders, mUsers, nil).Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, d.TotalOrders)
		assert.True(t, dec("3200.50").Equal(d.TotalRevenue))
		assert.Equal(t, 12, d.TotalProducts)
		assert.Equal(t, 9, d.TotalUsers)
	})

	t.Run("stats error", func(t *testing.T) {
		mOrders := new(repoMocks.MockOrderRepository)
		mOrders.On("Stats", ctx).Return(repository.OrderStats{}, errors.New("timeout"))

		_, err := NewAdminService(nil, mOrders, nil, nil).Dashboard(ctx)
		assert.EqualError(t, err, "order stats: timeout")
	})
}

func TestAdminService_GrantAndRevoke(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		userID     string
		revoke     bool
		setupMocks func(mUsers *repoMocks.MockUserRepository, mRoles *repoMocks.MockRoleRepository)
		wantErr    error
	}{
		{
			name:   "grant",
			userID: "u2",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mRoles *repoMocks.MockRoleRepository) {
				mUsers.On("FindProfile", ctx, "u2").Return(&model.Profile{ID: "u2"}, nil)
				mRoles.On("Grant", ctx, "u2", model.RoleAdmin).Return(nil)
			},
		},
		{
			name:   "revoke absent role is fine",
			userID: "u2",
			revoke: true,
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mRoles *repoMocks.MockRoleRepository) {
				mUsers.On("FindProfile", ctx, "u2").Return(&model.Profile{ID: "u2"}, nil)
				mRoles.On("Revoke", ctx, "u2", model.RoleAdmin).Return(false, nil)
			},
		},
		{
			name:   "unknown user",
			userID: "u9",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mRoles *repoMocks.MockRoleRepository) {
				mUsers.On("FindProfile", ctx, "u9").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrUserNotFound,
		},
		{
			name:       "empty id",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mRoles *repoMocks.MockRoleRepository) {},
			wantErr:    ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mUsers := new(repoMocks.MockUserRepository)
			mRoles := new(repoMocks.MockRoleRepository)
			tt.setupMocks(mUsers, mRoles)
			svc := NewAdminService(nil, nil, mUsers, mRoles)

			var err error
			if tt.revoke {
				err = svc.RevokeAdmin(ctx, tt.userID)
			} else {
				err = svc.GrantAdmin(ctx, tt.userID)
			}

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mUsers.AssertExpectations(t)
			mRoles.AssertExpectations(t)
		})
	}
}

func TestAdminService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	in := ProductInput{
		Name:            "Hand Block Printed Kurta",
		Price:           dec("1000"),
		DiscountPercent: 20,
		StockQuantity:   5,
		IsActive:        true,
	}

	t.Run("derives slug", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mCatalog.On("CreateProduct", ctx, mock.MatchedBy(func(p *model.Product) bool {
			return p.Slug == "hand-block-printed-kurta" && p.CategoryID == nil && p.Images != nil
		})).Return(&model.Product{ID: "p1", Price: dec("1000"), DiscountPercent: 20}, nil)

		p, err := NewAdminService(mCatalog, nil, nil, nil).CreateProduct(ctx, in)
		require.NoError(t, err)
		assert.True(t, dec("800").Equal(p.EffectivePrice))
	})

	t.Run("slug taken", func(t *testing.T) {
		mCatalog := new(repoMocks.MockCatalogRepository)
		mCatalog.On("CreateProduct", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)

		_, err := NewAdminService(mCatalog, nil, nil, nil).CreateProduct(ctx, in)
		assert.ErrorIs(t, err, ErrSlugTaken)
	})
}

func TestAdminService_UpdateProduct(t *testing.T) {
	ctx := context.Background()
	mCatalog := new(repoMocks.MockCatalogRepository)
	mCatalog.On("UpdateProduct", ctx, mock.MatchedBy(func(p *model.Product) bool { return p.ID == "p9" })).Return(nil, sql.ErrNoRows)
	svc := NewAdminService(mCatalog, nil, nil, nil)

	_, err := svc.UpdateProduct(ctx, "p9", ProductInput{Name: "X", Slug: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.UpdateProduct(ctx, "", ProductInput{Name: "X"})
	assert.ErrorIs(t, err, ErrIDRequired)
}

func TestAdminService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	mCatalog := new(repoMocks.MockCatalogRepository)
	mCatalog.On("DeleteProduct", ctx, "p1").Return(nil)
	mCatalog.On("DeleteProduct", ctx, "p9").Return(sql.ErrNoRows)
	mCatalog.On("DeleteProduct", ctx, "p5").Return(errors.New("conn reset"))
	svc := NewAdminService(mCatalog, nil, nil, nil)

	assert.NoError(t, svc.DeleteProduct(ctx, "p1"))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, "p9"), ErrProductNotFound)
	assert.EqualError(t, svc.DeleteProduct(ctx, "p5"), "delete product: conn reset")
	assert.ErrorIs(t, svc.DeleteProduct(ctx, ""), ErrIDRequired)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "silk-saree-2024", Slugify("  Silk Saree (2024)! "))
	assert.Equal(t, "a-b", Slugify("a---b"))
	assert.Equal(t, "", Slugify("!!!"))
}
