package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hotel-backend/internal/domain"
	"hotel-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var roomCols = []string{"id", "room_number", "type", "name", "price_cents", "status", "description", "image_keys",
	"created_at", "updated_at"}

func TestRoomRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRoomRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(roomCols).
		AddRow(1, "101", "double", "Garden Double", 10000, "available", "", []byte("{a.jpg,b.jpg}"), now, now).
		AddRow(2, "102", "double", "Sea Double", 12000, "out_of_order", "", []byte("{}"), now, now)
	mock.ExpectQuery("SELECT (.+) FROM rooms WHERE type = \\$1 ORDER BY id").
		WithArgs("double").
		WillReturnRows(rows)

	rooms, err := repo.List(context.Background(), "double")
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, rooms[0].ImageKeys)
	assert.Equal(t, []string{}, rooms[1].ImageKeys)
	assert.Equal(t, domain.RoomStatusOutOfOrder, rooms[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRoomRepository(db)
	room := &domain.Room{RoomNumber: "201", Type: "suite", Name: "Suite", PriceCents: 25000, Status: domain.RoomStatusAvailable}

	mock.ExpectQuery("INSERT INTO rooms").
		WithArgs("201", "suite", "Suite", int32(25000), "available", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	require.NoError(t, repo.Create(context.Background(), room))
	assert.Equal(t, int32(9), room.ID)
	assert.NotNil(t, room.ImageKeys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRoomRepository(db)
	mock.ExpectQuery("SELECT (.+) FROM rooms WHERE id = \\$1").
		WithArgs(int32(99)).
		WillReturnError(sql.ErrNoRows)

	room, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_ExistsNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRoomRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT id FROM rooms WHERE type = \\$1 AND room_number = \\$2 AND id <> \\$3").
		WithArgs("double", "101", int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	exists, err := repo.ExistsNumber(ctx, "double", "101", 0)
	assert.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT id FROM rooms WHERE type = \\$1 AND room_number = \\$2 AND id <> \\$3").
		WithArgs("double", "101", int32(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	exists, err = repo.ExistsNumber(ctx, "double", "101", 1)
	assert.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewRoomRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE rooms SET status = \\$1").
		WithArgs("needs_cleaning", sqlmock.AnyArg(), int32(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateStatus(ctx, 4, domain.RoomStatusNeedsCleaning))

	mock.ExpectExec("UPDATE rooms SET status = \\$1").
		WithArgs("available", sqlmock.AnyArg(), int32(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, 5, domain.RoomStatusAvailable), domain.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
