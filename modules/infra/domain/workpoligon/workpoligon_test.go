package workpoligon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/railway-dispatch/modules/infra/domain/workpoligon"
	"github.com/iota-uz/railway-dispatch/pkg/serrors"
)

func TestEqual(t *testing.T) {
	st5 := workpoligon.New(workpoligon.Station, 5)
	wp := workpoligon.NewWorkPlace(5, 2)
	wpCopy := workpoligon.NewWorkPlace(5, 2)

	assert.True(t, st5.Equal(workpoligon.New(workpoligon.Station, 5)))
	assert.True(t, wp.Equal(wpCopy), "sub ids compare by value")
	assert.False(t, st5.Equal(wp), "absent sub id matches only absent sub id")
	assert.False(t, wp.Equal(st5))
	assert.False(t, wp.Equal(workpoligon.NewWorkPlace(5, 3)))
	assert.False(t, st5.Equal(workpoligon.New(workpoligon.DncSector, 5)))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "station:5", workpoligon.New(workpoligon.Station, 5).Key())
	assert.Equal(t, "station:5:2", workpoligon.NewWorkPlace(5, 2).Key())
	assert.Equal(t, "ecd_sector:9", workpoligon.New(workpoligon.EcdSector, 9).Key())
}

func TestValidate(t *testing.T) {
	require.NoError(t, workpoligon.NewWorkPlace(1, 1).Validate())

	sub := int64(3)
	err := workpoligon.WorkPoligon{Type: workpoligon.DncSector, ID: 1, SubID: &sub}.Validate()
	assert.ErrorIs(t, err, workpoligon.ErrInvalid)
	assert.Equal(t, serrors.KindValidation, serrors.KindOf(err))

	assert.Error(t, workpoligon.WorkPoligon{Type: "depot", ID: 1}.Validate())
	assert.Error(t, workpoligon.New(workpoligon.Station, 0).Validate())
}
