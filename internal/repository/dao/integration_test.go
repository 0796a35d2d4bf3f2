package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// startPostgres runs a throwaway postgres container. The test is skipped
// when docker is not reachable.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env:        []string{"POSTGRES_PASSWORD=secret", "POSTGRES_DB=pilgrims"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=secret dbname=pilgrims sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	pool.MaxWait = 2 * time.Minute
	err = pool.Retry(func() error {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, DropAllTables(db))
	require.NoError(t, InitTables(db))

	return db
}

func TestIntegration_HousingAssignment(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	refs := NewReferenceDAO(db)
	ritual, err := refs.InsertLookup(ctx, Lookup{Kind: "rituals", NameAR: "حج"})
	require.NoError(t, err)

	halls := NewHallDAO(db)
	hall, err := halls.Insert(ctx, Hall{
		NameAR:   "مخيم ١",
		RitualID: ritual.ID,
		Capacity: 3,
		Beds:     []Bed{{Number: 1, Status: "reserved"}, {Number: 2, Status: "empty"}, {Number: 3, Status: "empty"}},
	})
	require.NoError(t, err)

	pilgrims := NewPilgrimDAO(db)
	a, err := pilgrims.Insert(ctx, Pilgrim{NameAR: "محمد", NationalID: "1012345678", Age: 40, Mobile: "0501234567", Source: "manual"})
	require.NoError(t, err)
	b, err := pilgrims.Insert(ctx, Pilgrim{NameAR: "أحمد", NationalID: "2012345678", Age: 35, Mobile: "0501234568", Source: "manual"})
	require.NoError(t, err)

	_, err = pilgrims.Insert(ctx, Pilgrim{NameAR: "مكرر", NationalID: "1012345678", Age: 30, Mobile: "0501234569", Source: "manual"})
	assert.ErrorIs(t, err, ErrNationalIDExists)

	assignments := NewAssignmentDAO(db)
	err = assignments.AssignHousing(ctx, ritual.ID, []uint{hall.ID}, []uint{a.ID, b.ID},
		func(free []FreeBeds) ([]BedPlacement, error) {
			require.Len(t, free, 1)
			assert.Equal(t, []int{2, 3}, free[0].Numbers)

			return []BedPlacement{
				{PilgrimID: a.ID, HallID: hall.ID, Number: 2},
				{PilgrimID: b.ID, HallID: hall.ID, Number: 3},
			}, nil
		})
	require.NoError(t, err)

	got, err := halls.FindByID(ctx, hall.ID)
	require.NoError(t, err)
	require.Len(t, got.Beds, 3)
	assert.Equal(t, "reserved", got.Beds[0].Status)
	assert.Equal(t, "full", got.Beds[1].Status)
	require.NotNil(t, got.Beds[1].PilgrimID)
	assert.Equal(t, a.ID, *got.Beds[1].PilgrimID)

	stored, err := pilgrims.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.BedNumber)
	assert.Equal(t, 3, *stored.BedNumber)

	require.NoError(t, pilgrims.Delete(ctx, a.ID))
	got, err = halls.FindByID(ctx, hall.ID)
	require.NoError(t, err)
	assert.Equal(t, "empty", got.Beds[1].Status)
	assert.Nil(t, got.Beds[1].PilgrimID)
}

func TestIntegration_TagsAndSupervisorsReplace(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	refs := NewReferenceDAO(db)
	vip, err := refs.InsertLookup(ctx, Lookup{Kind: "tags", NameAR: "مميز"})
	require.NoError(t, err)
	elderly, err := refs.InsertLookup(ctx, Lookup{Kind: "tags", NameAR: "كبار السن"})
	require.NoError(t, err)
	sup, err := refs.InsertEmployee(ctx, Employee{NameAR: "خالد", Role: "supervisor"})
	require.NoError(t, err)

	pilgrims := NewPilgrimDAO(db)
	p, err := pilgrims.Insert(ctx, Pilgrim{
		NameAR: "محمد", NationalID: "1012345678", Age: 40, Mobile: "0501234567", Source: "manual",
		TagIDs: []uint{vip.ID},
	})
	require.NoError(t, err)

	assignments := NewAssignmentDAO(db)
	require.NoError(t, assignments.AssignTags(ctx, []uint{elderly.ID}, []uint{p.ID}))
	require.NoError(t, assignments.AssignSupervisors(ctx, []uint{sup.ID}, []uint{p.ID}))

	stored, err := pilgrims.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{elderly.ID}, stored.TagIDs)
	assert.Equal(t, []uint{sup.ID}, stored.SupervisorIDs)
}
