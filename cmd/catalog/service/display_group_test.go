package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/models"
)

func TestDisplayGroupService_DeleteRejectedWhileInUse(t *testing.T) {
	ctx := context.Background()
	artifacts := newMemArtifactStore(testArtifact("1", "Apple II"))
	svc := NewDisplayGroupService(newMemGroupStore(), artifacts, logger.Discard())

	group, err := svc.Create(ctx, &models.DisplayGroup{Name: "Home Computers", Active: true}, "curator")
	require.NoError(t, err)

	err = svc.Delete(ctx, group.GroupID)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDisplayGroupInUse)

	_, err = artifacts.Delete(ctx, "1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, group.GroupID))
	assert.ErrorIs(t, svc.Delete(ctx, group.GroupID), models.ErrNotFound)
}

func TestDisplayGroupService_UniqueNames(t *testing.T) {
	ctx := context.Background()
	svc := NewDisplayGroupService(newMemGroupStore(), newMemArtifactStore(), logger.Discard())

	first, err := svc.Create(ctx, &models.DisplayGroup{Name: "Calculators"}, "curator")
	require.NoError(t, err)

	_, err = svc.Create(ctx, &models.DisplayGroup{Name: "  calculators "}, "curator")
	assert.ErrorIs(t, err, models.ErrDuplicateName)

	second, err := svc.Create(ctx, &models.DisplayGroup{Name: "Terminals"}, "curator")
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.GroupID, &models.DisplayGroup{Name: "CALCULATORS"})
	assert.ErrorIs(t, err, models.ErrDuplicateName)

	// renaming a group to a different case of its own name is allowed
	_, err = svc.Update(ctx, first.GroupID, &models.DisplayGroup{Name: "CALCULATORS"})
	assert.NoError(t, err)
}

func TestDisplayGroupService_RenameMovesArtifacts(t *testing.T) {
	ctx := context.Background()
	artifacts := newMemArtifactStore(testArtifact("1", "Apple II"), testArtifact("2", "Commodore 64"))
	svc := NewDisplayGroupService(newMemGroupStore(), artifacts, logger.Discard())

	group, err := svc.Create(ctx, &models.DisplayGroup{Name: "Home Computers"}, "curator")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, group.GroupID, &models.DisplayGroup{Name: "8-bit Home Computers", SortOrder: 2})
	require.NoError(t, err)
	assert.Equal(t, group.CreatedAt, updated.CreatedAt)

	n, err := artifacts.CountByDisplayGroup(ctx, "8-bit Home Computers")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDisplayGroupService_Validation(t *testing.T) {
	svc := NewDisplayGroupService(newMemGroupStore(), newMemArtifactStore(), logger.Discard())

	_, err := svc.Create(context.Background(), &models.DisplayGroup{Name: "  "}, "curator")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Create(context.Background(), &models.DisplayGroup{Name: "Mainframes", Color: "blue"}, "curator")
	assert.ErrorIs(t, err, models.ErrValidation)
}
