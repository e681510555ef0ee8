package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
}

func TestOpenMemory_Isolated(t *testing.T) {
	a, err := OpenMemory(&widget{})
	require.NoError(t, err)
	defer Close(a)
	b, err := OpenMemory(&widget{})
	require.NoError(t, err)
	defer Close(b)

	require.NoError(t, a.Create(&widget{ID: "w1", Name: "one"}).Error)

	var count int64
	require.NoError(t, b.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, a.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "podsaas.db")

	db, err := Open(Config{Path: path}, &widget{})
	require.NoError(t, err)
	require.NoError(t, db.Create(&widget{ID: "w1", Name: "one"}).Error)
	require.NoError(t, Close(db))

	db, err = Open(Config{Path: path})
	require.NoError(t, err)
	defer Close(db)

	var w widget
	require.NoError(t, db.First(&w, "id = ?", "w1").Error)
	assert.Equal(t, "one", w.Name)
}
