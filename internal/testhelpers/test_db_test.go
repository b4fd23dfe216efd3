package testhelpers

import "testing"

func TestSetupTestDBIsolated(t *testing.T) {
	db := SetupTestDB(t)
	if err := db.Exec("CREATE TABLE probe (id INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	t.Run("sibling", func(t *testing.T) {
		other := SetupTestDB(t)
		if other.Migrator().HasTable("probe") {
			t.Fatal("expected a fresh database per test name")
		}
	})
}
