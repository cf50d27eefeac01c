package testutil_test

import (
	"testing"

	"cryptowatch/internal/errors"
	"cryptowatch/internal/models"
	"cryptowatch/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"favorites"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	clientID := testutil.NewClientID()
	if clientID == testutil.NewClientID() {
		t.Fatal("client ids should be unique")
	}

	favorite := testutil.CreateTestFavorite(t, db, clientID, "BTCUSDT")
	if favorite.ID == "" {
		t.Fatal("favorite should have an ID")
	}

	var stored models.Favorite
	if err := db.First(&stored, "id = ?", favorite.ID).Error; err != nil {
		t.Fatalf("favorite not stored: %v", err)
	}
	if stored.Symbol != "BTCUSDT" || stored.ClientID != clientID {
		t.Errorf("unexpected stored favorite %+v", stored)
	}

	if n := len(testutil.SampleAssets()); n != 5 {
		t.Errorf("expected 5 sample assets, got %d", n)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrFavoriteNotFound, "custom message")
	testutil.AssertAppError(t, err, "FAVORITE_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
