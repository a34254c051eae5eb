package checklist

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_FromRowSkipsInvalid(t *testing.T) {
	log, hook := test.NewNullLogger()
	repo := NewPostgresRepository(nil, log)

	def, ok := repo.fromRow("d-1", "p-1", "Napkins", 2, "multiplo", 0)
	require.True(t, ok)
	assert.Equal(t, PerUnit, def.Mode)
	assert.Empty(t, hook.AllEntries())

	_, ok = repo.fromRow("d-2", "p-1", "Napkins", 0, "multiplo", 0)
	assert.False(t, ok)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "d-2", hook.LastEntry().Data["definition_id"])
}

func TestPostgresRepository_RejectsNonUUIDs(t *testing.T) {
	log, _ := test.NewNullLogger()
	repo := NewPostgresRepository(nil, log)
	ctx := context.Background()

	_, err := repo.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrDefinitionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "p", "not-a-uuid"), ErrDefinitionNotFound)

	defs, err := repo.ListByProducts(ctx, []string{"cake"})
	require.NoError(t, err)
	assert.Empty(t, defs)

	err = repo.Save(ctx, &ItemDefinition{ID: "x", ProductID: "y"})
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}
